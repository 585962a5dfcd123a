package index

import (
	"fmt"
	"html/template"
	"log/slog"

	"github.com/jgivc/centuriae/internal/adapter/tpladapter"
	"github.com/jgivc/centuriae/internal/entity"
	"github.com/jgivc/centuriae/internal/service/render"
)

const (
	IndexFileName = "index.html"

	indexRootPath = "."
)

type Templates interface {
	RenderPage(pc *tpladapter.PageContext) ([]byte, error)
	RenderAuthor(ac *tpladapter.AuthorContext) (template.HTML, error)
	RenderIndex(ic *tpladapter.IndexContext) (template.HTML, error)
}

type Writer interface {
	WriteFile(name string, data []byte) error
}

type IndexService struct {
	tpl Templates
	out Writer
	log *slog.Logger
}

func NewIndexService(tpl Templates, out Writer, log *slog.Logger) *IndexService {
	return &IndexService{
		tpl: tpl,
		out: out,
		log: log.With(slog.String("item", "IndexService")),
	}
}

// Compose writes the listing page of the corpus in its resolved order.
func (i *IndexService) Compose(corpus *entity.Corpus, site *tpladapter.Site) error {
	items := make([]tpladapter.IndexItem, 0, corpus.Len())

	for _, e := range corpus.Entries() {
		author, err := i.tpl.RenderAuthor(&tpladapter.AuthorContext{Name: e.Author(), Link: e.AuthorLink})
		if err != nil {
			return fmt.Errorf("cannot render author of %s: %w", e.Slug, err)
		}

		items = append(items, tpladapter.IndexItem{
			URL:    render.PagePath(e.Slug),
			Number: e.Number,
			Title:  e.Title,
			Author: author,
		})
	}

	list, err := i.tpl.RenderIndex(&tpladapter.IndexContext{Items: items})
	if err != nil {
		i.log.Error("Cannot render index", slog.Any("error", err))

		return fmt.Errorf("cannot render index: %w", err)
	}

	page, err := i.tpl.RenderPage(&tpladapter.PageContext{
		Title:      site.Title,
		Content:    list,
		SiteTitle:  site.Title,
		FooterText: site.FooterText,
		RootPath:   indexRootPath,
		IsIndex:    true,
	})
	if err != nil {
		return fmt.Errorf("cannot render index page: %w", err)
	}

	if err := i.out.WriteFile(IndexFileName, page); err != nil {
		i.log.Error("Cannot save index", slog.Any("error", err))

		return fmt.Errorf("cannot save index: %w", err)
	}

	i.log.Info("Index composed", slog.Int("count", len(items)))

	return nil
}
