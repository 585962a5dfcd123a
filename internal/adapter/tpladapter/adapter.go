package tpladapter

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	layoutFileName   = "layout.html"
	timelineFileName = "diff.html"
	partialsFileName = "partials.html"

	templateNameNav    = "nav"
	templateNameAuthor = "author"
	templateNameMeta   = "meta"
	templateNameIndex  = "index"
)

var (
	//go:embed templates/*.html
	defaultTemplates embed.FS
)

type tplAdapter struct {
	layout   *template.Template
	timeline *template.Template
	partials *template.Template
}

// NewTplAdapter loads the page templates from dir, falling back to the
// built-in ones for every file dir does not provide.
func NewTplAdapter(fs afero.Fs, dir string) (*tplAdapter, error) {
	a := &tplAdapter{}

	for _, t := range []struct {
		dst  **template.Template
		name string
	}{
		{&a.layout, layoutFileName},
		{&a.timeline, timelineFileName},
		{&a.partials, partialsFileName},
	} {
		src, err := readTemplate(fs, dir, t.name)
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(t.name).Option("missingkey=zero").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("cannot parse template %s: %w", t.name, err)
		}

		*t.dst = tmpl
	}

	for _, name := range []string{templateNameNav, templateNameAuthor, templateNameMeta, templateNameIndex} {
		if a.partials.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s must be defined in %s", name, partialsFileName)
		}
	}

	return a, nil
}

func readTemplate(fs afero.Fs, dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot read template %s: %w", name, err)
		}
	}

	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("cannot read default template %s: %w", name, err)
	}

	return data, nil
}

// RenderPage renders a content or index page through the layout template.
func (a *tplAdapter) RenderPage(pc *PageContext) ([]byte, error) {
	return build(a.layout, pc.placeholders())
}

// RenderTimeline renders the revision timeline page of an entry.
func (a *tplAdapter) RenderTimeline(tc *TimelineContext) ([]byte, error) {
	return build(a.timeline, tc.placeholders())
}

func (a *tplAdapter) RenderNav(nc *NavContext) (template.HTML, error) {
	return a.partial(templateNameNav, nc)
}

func (a *tplAdapter) RenderAuthor(ac *AuthorContext) (template.HTML, error) {
	return a.partial(templateNameAuthor, ac)
}

func (a *tplAdapter) RenderMeta(mc *MetaContext) (template.HTML, error) {
	return a.partial(templateNameMeta, mc)
}

func (a *tplAdapter) RenderIndex(ic *IndexContext) (template.HTML, error) {
	return a.partial(templateNameIndex, ic)
}

func (a *tplAdapter) partial(name string, data any) (template.HTML, error) {
	tmpl := a.partials.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %s must be defined", name)
	}

	content, err := build(tmpl, data)

	return template.HTML(content), err
}

func build(tmpl *template.Template, data any) ([]byte, error) {
	buf := bytes.Buffer{}

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("cannot execute template %s: %w", tmpl.Name(), err)
	}

	return buf.Bytes(), nil
}
