package entity

// Entry is one content item published as a page.
type Entry struct {
	SourcePath   string // Path to the backing content file
	Slug         string // Output location key: Number if present, else the file name stem
	Title        string
	Number       string // Optional, explicit or taken from a numeric file name prefix
	AuthorName   string // Optional override of the revision author
	AuthorLink   string // Optional author URL
	LastRevision Revision
	BodyHTML     string // Rendered body, opaque to the pipeline
}

// HasNumber reports whether the entry carries a number.
func (e *Entry) HasNumber() bool {
	return e.Number != ""
}

// Author returns the override author if set, else the last revision author.
func (e *Entry) Author() string {
	if e.AuthorName != "" {
		return e.AuthorName
	}

	return e.LastRevision.Author
}

// Metadata holds the recognized front-matter keys of a content file.
type Metadata struct {
	Title      string
	Number     string
	Author     string
	AuthorLink string
}

// Source is a loaded content file before identity resolution.
type Source struct {
	Path         string
	Meta         Metadata
	BodyHTML     string
	LastRevision Revision
}
