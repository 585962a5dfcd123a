package entity

const (
	SentinelAuthor     = "Unknown"
	SentinelDateDraft  = "Draft"
	SentinelDateError  = "Error"
	SentinelIdentifier = "N/A"
)

// Revision summarizes the latest known change of a source file.
type Revision struct {
	Author     string
	Date       string // YYYY-MM-DD or a sentinel
	Identifier string // Short commit hash or a sentinel
}

var (
	DraftRevision = Revision{Author: SentinelAuthor, Date: SentinelDateDraft, Identifier: SentinelIdentifier}
	ErrorRevision = Revision{Author: SentinelAuthor, Date: SentinelDateError, Identifier: SentinelIdentifier}
)

// IsSentinelIdentifier reports whether id is a placeholder rather than a commit reference.
func IsSentinelIdentifier(id string) bool {
	switch id {
	case SentinelIdentifier, SentinelDateDraft, SentinelDateError, "":
		return true
	}

	return false
}

// LogEntry is one line of a file's version-control log.
type LogEntry struct {
	Identifier string
	Timestamp  string // RFC 3339
	Subject    string
}

// RevisionRecord is a historical snapshot of a source file.
// The JSON keys are read by the timeline page script.
type RevisionRecord struct {
	Identifier string `json:"hash"`
	Timestamp  string `json:"date"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	SourceName string `json:"filename"`
}
