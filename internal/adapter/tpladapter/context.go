package tpladapter

import "html/template"

// PageContext binds a content page, or the index page, to the layout.
type PageContext struct {
	Title      string
	Content    template.HTML
	Nav        template.HTML
	Meta       template.HTML
	SiteTitle  string
	FooterText template.HTML
	RootPath   string
	IsIndex    bool
}

func (pc *PageContext) placeholders() map[string]any {
	return map[string]any{
		"title":       pc.Title,
		"content":     pc.Content,
		"nav":         pc.Nav,
		"meta":        pc.Meta,
		"site_title":  pc.SiteTitle,
		"footer_text": pc.FooterText,
		"root_path":   pc.RootPath,
		"is_index":    pc.IsIndex,
	}
}

// TimelineContext binds the revision timeline page of an entry.
type TimelineContext struct {
	Title         string
	PostURL       string
	HistoryJSON   template.JS
	SiteTitle     string
	AuthorDisplay template.HTML
	PostNumber    string
	FooterText    template.HTML
}

func (tc *TimelineContext) placeholders() map[string]any {
	return map[string]any{
		"title":          tc.Title,
		"post_url":       tc.PostURL,
		"history_json":   tc.HistoryJSON,
		"site_title":     tc.SiteTitle,
		"author_display": tc.AuthorDisplay,
		"post_number":    tc.PostNumber,
		"footer_text":    tc.FooterText,
	}
}

type NavLink struct {
	Slug   string
	Number string
	Title  string
}

type NavContext struct {
	Previous *NavLink
	Next     *NavLink
}

type AuthorContext struct {
	Name string
	Link string
}

type MetaContext struct {
	Number      string
	Author      template.HTML
	Date        string
	Identifier  string
	TimelineURL string // Empty when the identifier is a sentinel
}

type IndexItem struct {
	URL    string
	Number string
	Title  string
	Author template.HTML
}

type IndexContext struct {
	Items []IndexItem
}

// Site holds the values shared by every page of one build.
type Site struct {
	Title      string
	FooterText template.HTML
}
