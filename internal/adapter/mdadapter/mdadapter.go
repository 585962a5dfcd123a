package mdadapter

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jgivc/centuriae/internal/entity"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	keyTitle      = "title"
	keyNumber     = "number"
	keyAuthor     = "author"
	keyAuthorLink = "author_link"
)

var knownKeys = map[string]struct{}{
	keyTitle:      {},
	keyNumber:     {},
	keyAuthor:     {},
	keyAuthorLink: {},
}

type mdAdapter struct {
	md goldmark.Markdown
}

func NewMDAdapter() *mdAdapter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &mdAdapter{md: md}
}

// Convert renders markdown source to HTML and returns the recognized
// metadata keys. Metadata comes from a fenced front-matter block or from a
// leading "Key: value" header block ended by a blank line.
func (a *mdAdapter) Convert(src []byte) (string, entity.Metadata, error) {
	raw, body := splitHeader(src)

	content, pc, err := a.render(body)
	if err != nil {
		return "", entity.Metadata{}, err
	}

	if fm := frontmatter.Get(pc); fm != nil {
		if err := fm.Decode(&raw); err != nil {
			return "", entity.Metadata{}, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	meta, err := decodeMetadata(raw)
	if err != nil {
		return "", entity.Metadata{}, err
	}

	return content, meta, nil
}

// ConvertText renders a markdown snippet, such as the site footer.
func (a *mdAdapter) ConvertText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	content, _, err := a.render([]byte(text))

	return content, err
}

func (a *mdAdapter) render(src []byte) (string, parser.Context, error) {
	var buf bytes.Buffer

	pc := parser.NewContext()
	if err := a.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return "", nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	return buf.String(), pc, nil
}

var (
	headerKeyRe  = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	headerMoreRe = regexp.MustCompile(`^[ ]{4,}(.*)$`)
)

// splitHeader cuts a leading "Key: value" block off src. Keys are case
// insensitive; indented lines continue the previous key. The block ends at
// the first blank line or at the first line that is not part of it.
func splitHeader(src []byte) (map[string]any, []byte) {
	raw := map[string]any{}

	text := string(src)
	if !headerKeyRe.MatchString(firstLine(text)) {
		return raw, src
	}

	var key string
	for text != "" {
		line, rest, _ := strings.Cut(text, "\n")
		line = strings.TrimSuffix(line, "\r")

		if strings.TrimSpace(line) == "" {
			text = rest

			break
		}

		if m := headerKeyRe.FindStringSubmatch(line); m != nil {
			key = strings.ToLower(m[1])
			values, _ := raw[key].([]any)
			raw[key] = append(values, strings.TrimSpace(m[2]))
		} else if m := headerMoreRe.FindStringSubmatch(line); m != nil && key != "" {
			values, _ := raw[key].([]any)
			raw[key] = append(values, strings.TrimSpace(m[1]))
		} else {
			break
		}

		text = rest
	}

	return raw, []byte(text)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return strings.TrimSuffix(line, "\r")
}

func decodeMetadata(raw map[string]any) (entity.Metadata, error) {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		k = strings.ToLower(k)
		if _, known := knownKeys[k]; !known {
			continue
		}

		s, err := scalar(v)
		if err != nil {
			return entity.Metadata{}, fmt.Errorf("metadata key %q: %w", k, err)
		}

		values[k] = s
	}

	return entity.Metadata{
		Title:      values[keyTitle],
		Number:     values[keyNumber],
		Author:     values[keyAuthor],
		AuthorLink: values[keyAuthorLink],
	}, nil
}

func scalar(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case []any:
		// Single values may come list-wrapped.
		if len(val) == 0 {
			return "", nil
		}

		return scalar(val[0])
	}

	return "", fmt.Errorf("unsupported value type %T", v)
}
