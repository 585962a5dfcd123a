package mdadapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	testCases := []struct {
		name         string
		src          string
		expectError  bool
		expectedMeta map[string]string
		contains     []string
	}{
		{
			name:         "No frontmatter",
			src:          "# Heading\n\nSome *text*.\n",
			expectedMeta: map[string]string{},
			contains:     []string{"<h1>Heading</h1>", "<em>text</em>"},
		},
		{
			name: "YAML frontmatter",
			src: `---
title: "Hello world"
number: 12
author: Ann
author_link: https://example.com/ann
tags: [a, b]
---

Body
`,
			expectedMeta: map[string]string{
				"title":       "Hello world",
				"number":      "12",
				"author":      "Ann",
				"author_link": "https://example.com/ann",
			},
			contains: []string{"<p>Body</p>"},
		},
		{
			name: "String number and mixed case key",
			src: `---
Number: "007"
---
text
`,
			expectedMeta: map[string]string{"number": "007"},
		},
		{
			name:         "Key value header",
			src:          "Title: Hello There\nNumber: 7\nAuthor: Ann\nAuthor_Link: https://example.com/ann\n\nBody text\n",
			expectedMeta: map[string]string{
				"title":       "Hello There",
				"number":      "7",
				"author":      "Ann",
				"author_link": "https://example.com/ann",
			},
			contains: []string{"<p>Body text</p>"},
		},
		{
			name:         "Fenced code",
			src:          "```go\nfmt.Println(1)\n```\n",
			expectedMeta: map[string]string{},
			contains:     []string{"<pre><code class=\"language-go\">"},
		},
		{
			name:        "Unsupported number type",
			src:         "---\nnumber: {a: 1}\n---\n",
			expectError: true,
		},
	}

	a := NewMDAdapter()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content, meta, err := a.Convert([]byte(tc.src))
			if tc.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectedMeta["title"], meta.Title)
			require.Equal(t, tc.expectedMeta["number"], meta.Number)
			require.Equal(t, tc.expectedMeta["author"], meta.Author)
			require.Equal(t, tc.expectedMeta["author_link"], meta.AuthorLink)
			require.NotContains(t, content, "author_link")

			for _, s := range tc.contains {
				require.Contains(t, content, s)
			}
		})
	}
}

func TestConvertText(t *testing.T) {
	a := NewMDAdapter()

	content, err := a.ConvertText("  ")
	require.NoError(t, err)
	require.Empty(t, content)

	content, err = a.ConvertText("Made with **care**\n")
	require.NoError(t, err)
	require.Contains(t, content, "<strong>care</strong>")
}

func TestConvertKeyValueHeader(t *testing.T) {
	a := NewMDAdapter()

	content, meta, err := a.Convert([]byte("title: First line\n    continued\nSummary: ignored\r\n# Heading\n"))
	require.NoError(t, err)
	require.Equal(t, "First line", meta.Title)
	require.NotContains(t, content, "Summary")
	require.NotContains(t, content, "continued")
	require.Contains(t, content, "<h1>Heading</h1>")

	content, meta, err = a.Convert([]byte("Plain paragraph: not a header because it has spaces\n"))
	require.NoError(t, err)
	require.Empty(t, meta.Title)
	require.Contains(t, content, "Plain paragraph")
}

func TestConvertTextKeepsLeadingKey(t *testing.T) {
	content, err := NewMDAdapter().ConvertText("Contact: the editors")
	require.NoError(t, err)
	require.Contains(t, content, "<p>Contact: the editors</p>")
}
