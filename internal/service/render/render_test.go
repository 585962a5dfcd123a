package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jgivc/centuriae/internal/adapter/fsadapter"
	"github.com/jgivc/centuriae/internal/adapter/tpladapter"
	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) History(ctx context.Context, path string) entity.Result[[]entity.RevisionRecord] {
	args := m.Called(path)

	return args.Get(0).(entity.Result[[]entity.RevisionRecord])
}

func newService(t *testing.T, history HistoryService) (afero.Fs, *RenderService) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := afero.NewMemMapFs()

	tpl, err := tpladapter.NewTplAdapter(fs, "/templates")
	require.NoError(t, err)

	return fs, NewRenderService(tpl, fsadapter.NewFSAdapter(fs, "/out", log), history, log)
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	return string(data)
}

var site = &tpladapter.Site{Title: "Centuriae", FooterText: "<p>footer</p>"}

func TestRender(t *testing.T) {
	history := &MockHistory{}
	history.On("History", "/content/02-second.md").Return(entity.Ok([]entity.RevisionRecord{
		{Identifier: "bbbbbbb", Timestamp: "2024-01-02T10:00:00+00:00", Subject: "edit", Content: "new <b>", SourceName: "02-second.md"},
		{Identifier: "aaaaaaa", Timestamp: "2024-01-01T10:00:00+00:00", Subject: "add", Content: "old", SourceName: "02-second.md"},
	}))

	fs, s := newService(t, history)

	l := &entity.Linked{
		Entry: &entity.Entry{
			SourcePath:   "/content/02-second.md",
			Slug:         "2",
			Title:        "Second",
			Number:       "2",
			AuthorName:   "Ann",
			AuthorLink:   "https://example.com/ann",
			LastRevision: entity.Revision{Author: "bob", Date: "2024-01-02", Identifier: "bbbbbbb"},
			BodyHTML:     "<p>Body</p>",
		},
		Previous: &entity.Entry{Slug: "1", Number: "1", Title: "First"},
	}

	require.NoError(t, s.Render(context.Background(), l, site))
	history.AssertExpectations(t)

	page := readFile(t, fs, "/out/posts/2.html")
	require.Contains(t, page, "<p>Body</p>")
	require.Contains(t, page, `<a href="1.html" style="text-decoration: none;">&larr; 1 First</a><span></span>`)
	require.Contains(t, page, `href="https://example.com/ann"`)
	require.Contains(t, page, ">Ann</a>")
	require.NotContains(t, page, "bob")
	require.Contains(t, page, "Last updated: 2024-01-02")
	require.Contains(t, page, `href="../diffs/2.html?commit=bbbbbbb"`)
	require.Contains(t, page, "<p>footer</p>")

	timeline := readFile(t, fs, "/out/diffs/2.html")
	require.Contains(t, timeline, `href="../posts/2.html"`)
	require.Contains(t, timeline, `"hash":"bbbbbbb"`)
	require.Contains(t, timeline, `"content":"new \u003cb\u003e"`)
	require.Contains(t, timeline, `"filename":"02-second.md"`)
	require.Less(t, strings.Index(timeline, "bbbbbbb"), strings.Index(timeline, "aaaaaaa"))
}

func TestRenderDegradedEntry(t *testing.T) {
	history := &MockHistory{}
	history.On("History", "/content/draft.md").Return(
		entity.Degraded([]entity.RevisionRecord{}, entity.ReasonNoHistory, common.ErrNoHistory))

	fs, s := newService(t, history)

	l := &entity.Linked{
		Entry: &entity.Entry{
			SourcePath:   "/content/draft.md",
			Slug:         "draft",
			Title:        "Draft",
			LastRevision: entity.DraftRevision,
		},
	}

	require.NoError(t, s.Render(context.Background(), l, site))

	page := readFile(t, fs, "/out/posts/draft.html")
	require.Contains(t, page, "By Unknown")
	require.Contains(t, page, "Last updated: Draft")
	require.Contains(t, page, "N/A")
	require.NotContains(t, page, "View Timeline")
	require.NotContains(t, page, `class="post-nav"`)

	require.Contains(t, readFile(t, fs, "/out/diffs/draft.html"), "initDiff([]);")
}

func TestRenderFatalHistory(t *testing.T) {
	history := &MockHistory{}
	history.On("History", "/content/x.md").Return(entity.Fatal[[]entity.RevisionRecord](context.Canceled))

	fs, s := newService(t, history)

	l := &entity.Linked{Entry: &entity.Entry{SourcePath: "/content/x.md", Slug: "x", LastRevision: entity.DraftRevision}}

	err := s.Render(context.Background(), l, site)
	require.True(t, errors.Is(err, context.Canceled))

	exists, err := afero.Exists(fs, "/out/posts/x.html")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestPaths(t *testing.T) {
	require.Equal(t, "posts/7.html", PagePath("7"))
	require.Equal(t, "diffs/7.html", TimelinePath("7"))
}
