package order

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	serviceName = "order"
)

type OrderService struct {
	title cases.Caser
	log   *slog.Logger
}

func NewOrderService(log *slog.Logger) *OrderService {
	return &OrderService{
		title: cases.Title(language.Und),
		log:   log.With(slog.String("service", serviceName)),
	}
}

type sortKey struct {
	numbered bool
	value    int64
	date     string
}

func (k sortKey) less(o sortKey) bool {
	if k.numbered != o.numbered {
		return k.numbered
	}

	if k.numbered {
		return k.value < o.value
	}

	return k.date < o.date
}

// Resolve derives identities for all sources, rejects duplicate numbers and
// returns the entries in their canonical order.
func (s *OrderService) Resolve(sources []*entity.Source) (*entity.Corpus, error) {
	entries := make([]*entity.Entry, len(sources))
	for i, src := range sources {
		entries[i] = s.identify(src)
	}

	if err := checkUnique(entries); err != nil {
		s.log.Error("Duplicate entry numbers", slog.Any("error", err))

		return nil, err
	}

	keys := make(map[*entity.Entry]sortKey, len(entries))
	for _, e := range entries {
		key := sortKey{date: e.LastRevision.Date}
		if e.HasNumber() {
			v, err := strconv.ParseInt(e.Number, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %q: %w", e.SourcePath, e.Number, common.ErrInvalidNumber)
			}

			key = sortKey{numbered: true, value: v}
		}

		keys[e] = key
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return keys[entries[i]].less(keys[entries[j]])
	})

	s.log.Info("Corpus resolved", slog.Int("count", len(entries)))

	return entity.NewCorpus(entries), nil
}

func (s *OrderService) identify(src *entity.Source) *entity.Entry {
	stem := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))

	number := src.Meta.Number
	if number == "" {
		number = NumberFromStem(stem)
	}

	slug := stem
	if number != "" {
		slug = number
	}

	title := src.Meta.Title
	if title == "" {
		title = s.title.String(strings.ReplaceAll(stem, "-", " "))
	}

	return &entity.Entry{
		SourcePath:   src.Path,
		Slug:         slug,
		Title:        title,
		Number:       number,
		AuthorName:   src.Meta.Author,
		AuthorLink:   src.Meta.AuthorLink,
		LastRevision: src.LastRevision,
		BodyHTML:     src.BodyHTML,
	}
}

// NumberFromStem returns the leading dash-delimited segment of stem when it
// consists of digits only.
func NumberFromStem(stem string) string {
	prefix, _, _ := strings.Cut(stem, "-")
	if prefix == "" {
		return ""
	}

	for _, r := range prefix {
		if r < '0' || r > '9' {
			return ""
		}
	}

	return prefix
}

func checkUnique(entries []*entity.Entry) error {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.HasNumber() {
			counts[e.Number]++
		}
	}

	var duplicates []string
	for number, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, number)
		}
	}

	if len(duplicates) == 0 {
		return nil
	}

	sort.Slice(duplicates, func(i, j int) bool {
		a, errA := strconv.ParseInt(duplicates[i], 10, 64)
		b, errB := strconv.ParseInt(duplicates[j], 10, 64)
		if errA == nil && errB == nil && a != b {
			return a < b
		}

		return duplicates[i] < duplicates[j]
	})

	return &common.DuplicateNumbersError{Numbers: duplicates}
}
