package order

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/entity"
	"github.com/stretchr/testify/require"
)

func newService() *OrderService {
	return NewOrderService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func source(path, number, date string) *entity.Source {
	return &entity.Source{
		Path:         path,
		Meta:         entity.Metadata{Number: number},
		LastRevision: entity.Revision{Author: "ann", Date: date, Identifier: "abc1234"},
	}
}

func slugs(c *entity.Corpus) []string {
	var out []string
	for _, e := range c.Entries() {
		out = append(out, e.Slug)
	}

	return out
}

func TestNumberFromStem(t *testing.T) {
	testCases := map[string]string{
		"12-hello-world": "12",
		"007":            "007",
		"hello-12":       "",
		"12a-intro":      "",
		"-12":            "",
		"about":          "",
		"":               "",
	}

	for stem, want := range testCases {
		require.Equal(t, want, NumberFromStem(stem), stem)
	}
}

func TestIdentity(t *testing.T) {
	testCases := []struct {
		name           string
		src            *entity.Source
		expectedSlug   string
		expectedNumber string
		expectedTitle  string
	}{
		{
			name:           "Numeric prefix",
			src:            &entity.Source{Path: "content/3-my-first-post.md"},
			expectedSlug:   "3",
			expectedNumber: "3",
			expectedTitle:  "3 My First Post",
		},
		{
			name:           "Explicit number wins",
			src:            &entity.Source{Path: "content/3-post.md", Meta: entity.Metadata{Number: "42", Title: "Answer"}},
			expectedSlug:   "42",
			expectedNumber: "42",
			expectedTitle:  "Answer",
		},
		{
			name:          "No number",
			src:           &entity.Source{Path: "content/about-me.md"},
			expectedSlug:  "about-me",
			expectedTitle: "About Me",
		},
	}

	s := newService()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			corpus, err := s.Resolve([]*entity.Source{tc.src})
			require.NoError(t, err)
			require.Equal(t, 1, corpus.Len())

			e := corpus.At(0)
			require.Equal(t, tc.expectedSlug, e.Slug)
			require.Equal(t, tc.expectedNumber, e.Number)
			require.Equal(t, tc.expectedTitle, e.Title)
		})
	}
}

func TestDuplicateNumbers(t *testing.T) {
	_, err := newService().Resolve([]*entity.Source{
		source("content/a.md", "1", "2024-01-01"),
		source("content/b.md", "2", "2024-01-01"),
		source("content/c.md", "2", "2024-01-01"),
	})
	require.ErrorIs(t, err, common.ErrDuplicateNumbers)

	numbers, ok := common.DuplicateNumbers(err)
	require.True(t, ok)
	require.Equal(t, []string{"2"}, numbers)
}

func TestDuplicateNumbersReportsAll(t *testing.T) {
	_, err := newService().Resolve([]*entity.Source{
		source("content/10-a.md", "", "2024-01-01"),
		source("content/b.md", "10", "2024-01-01"),
		source("content/3-c.md", "", "2024-01-01"),
		source("content/d.md", "3", "2024-01-01"),
		source("content/e.md", "4", "2024-01-01"),
	})

	numbers, ok := common.DuplicateNumbers(err)
	require.True(t, ok)
	require.Equal(t, []string{"3", "10"}, numbers)
}

func TestInvalidNumber(t *testing.T) {
	_, err := newService().Resolve([]*entity.Source{
		source("content/a.md", "one", "2024-01-01"),
	})
	require.ErrorIs(t, err, common.ErrInvalidNumber)
}

func TestOrdering(t *testing.T) {
	sources := []*entity.Source{
		source("content/late.md", "", "2024-05-01"),
		source("content/10-ten.md", "", "Draft"),
		source("content/early.md", "", "2023-01-01"),
		source("content/2-two.md", "", "2025-01-01"),
		source("content/same-a.md", "", "2024-03-03"),
		source("content/same-b.md", "", "2024-03-03"),
	}

	s := newService()

	corpus, err := s.Resolve(sources)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "10", "early", "same-a", "same-b", "late"}, slugs(corpus))

	again, err := s.Resolve(sources)
	require.NoError(t, err)
	require.Equal(t, slugs(corpus), slugs(again))
}

func TestNumberedBeforeDated(t *testing.T) {
	corpus, err := newService().Resolve([]*entity.Source{
		source("content/undated.md", "", "2024-01-01"),
		source("content/post.md", "10", "Draft"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"10", "undated"}, slugs(corpus))
}

func TestNumericOrderNotLexical(t *testing.T) {
	corpus, err := newService().Resolve([]*entity.Source{
		source("content/9-nine.md", "", ""),
		source("content/10-ten.md", "", ""),
		source("content/100-hundred.md", "", ""),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"9", "10", "100"}, slugs(corpus))
}
