package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"path"

	"github.com/jgivc/centuriae/internal/adapter/fsadapter"
	"github.com/jgivc/centuriae/internal/adapter/tpladapter"
	"github.com/jgivc/centuriae/internal/entity"
)

const (
	serviceName = "render"

	pageRootPath = ".."
)

type Templates interface {
	RenderPage(pc *tpladapter.PageContext) ([]byte, error)
	RenderTimeline(tc *tpladapter.TimelineContext) ([]byte, error)
	RenderNav(nc *tpladapter.NavContext) (template.HTML, error)
	RenderAuthor(ac *tpladapter.AuthorContext) (template.HTML, error)
	RenderMeta(mc *tpladapter.MetaContext) (template.HTML, error)
}

type Writer interface {
	WriteFile(name string, data []byte) error
}

type HistoryService interface {
	History(ctx context.Context, path string) entity.Result[[]entity.RevisionRecord]
}

type RenderService struct {
	tpl     Templates
	out     Writer
	history HistoryService
	log     *slog.Logger
}

func NewRenderService(tpl Templates, out Writer, history HistoryService, log *slog.Logger) *RenderService {
	return &RenderService{
		tpl:     tpl,
		out:     out,
		history: history,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// PagePath is the output-relative location of the content page of slug.
func PagePath(slug string) string {
	return path.Join(fsadapter.PostsDir, slug+".html")
}

// TimelinePath is the output-relative location of the timeline page of slug.
func TimelinePath(slug string) string {
	return path.Join(fsadapter.DiffsDir, slug+".html")
}

// Render writes the content page and the timeline page of one entry.
func (s *RenderService) Render(ctx context.Context, l *entity.Linked, site *tpladapter.Site) error {
	author, err := s.tpl.RenderAuthor(&tpladapter.AuthorContext{Name: l.Author(), Link: l.AuthorLink})
	if err != nil {
		return fmt.Errorf("cannot render author of %s: %w", l.Slug, err)
	}

	page, err := s.page(l, author, site)
	if err != nil {
		return err
	}

	timeline, err := s.timeline(ctx, l, author, site)
	if err != nil {
		return err
	}

	if err := s.out.WriteFile(PagePath(l.Slug), page); err != nil {
		return fmt.Errorf("cannot write page %s: %w", l.Slug, err)
	}

	if err := s.out.WriteFile(TimelinePath(l.Slug), timeline); err != nil {
		return fmt.Errorf("cannot write timeline %s: %w", l.Slug, err)
	}

	s.log.Debug("Rendered entry", slog.String("slug", l.Slug))

	return nil
}

func (s *RenderService) page(l *entity.Linked, author template.HTML, site *tpladapter.Site) ([]byte, error) {
	nav, err := s.tpl.RenderNav(&tpladapter.NavContext{
		Previous: navLink(l.Previous),
		Next:     navLink(l.Next),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot render nav of %s: %w", l.Slug, err)
	}

	mc := &tpladapter.MetaContext{
		Number:     l.Number,
		Author:     author,
		Date:       l.LastRevision.Date,
		Identifier: l.LastRevision.Identifier,
	}
	if !entity.IsSentinelIdentifier(l.LastRevision.Identifier) {
		mc.TimelineURL = pageRootPath + "/" + TimelinePath(l.Slug) + "?commit=" + l.LastRevision.Identifier
	} else {
		s.log.Warn("Entry has no usable revision", slog.String("slug", l.Slug),
			slog.String("date", l.LastRevision.Date))
	}

	meta, err := s.tpl.RenderMeta(mc)
	if err != nil {
		return nil, fmt.Errorf("cannot render meta of %s: %w", l.Slug, err)
	}

	page, err := s.tpl.RenderPage(&tpladapter.PageContext{
		Title:      l.Title,
		Content:    template.HTML(l.BodyHTML),
		Nav:        nav,
		Meta:       meta,
		SiteTitle:  site.Title,
		FooterText: site.FooterText,
		RootPath:   pageRootPath,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot render page %s: %w", l.Slug, err)
	}

	return page, nil
}

func (s *RenderService) timeline(ctx context.Context, l *entity.Linked, author template.HTML, site *tpladapter.Site) ([]byte, error) {
	res := s.history.History(ctx, l.SourcePath)
	if res.Status == entity.StatusFatal {
		return nil, fmt.Errorf("cannot get history of %s: %w", l.Slug, res.Err)
	}

	records := res.Value
	if records == nil {
		records = []entity.RevisionRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("cannot encode history of %s: %w", l.Slug, err)
	}

	page, err := s.tpl.RenderTimeline(&tpladapter.TimelineContext{
		Title:         l.Title,
		PostURL:       pageRootPath + "/" + PagePath(l.Slug),
		HistoryJSON:   template.JS(data),
		SiteTitle:     site.Title,
		AuthorDisplay: author,
		PostNumber:    l.Number,
		FooterText:    site.FooterText,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot render timeline %s: %w", l.Slug, err)
	}

	return page, nil
}

func navLink(e *entity.Entry) *tpladapter.NavLink {
	if e == nil {
		return nil
	}

	return &tpladapter.NavLink{Slug: e.Slug, Number: e.Number, Title: e.Title}
}
