// Package metadata extracts a display title from an HTML document.
//
// Extraction is a best-effort heuristic on top of the HTML tokenizer: the
// document is not validated and only the first matching tag is considered.
// The Open Graph title takes priority over the <title> element.
package metadata

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Untitled is returned when the document has neither an og:title meta tag
// nor a non-empty <title> element.
const Untitled = "Untitled"

const ogTitleProperty = "og:title"

// ExtractTitle reads an HTML document from r and returns its display title.
//
// The content of the first <meta property="og:title"> tag wins. Otherwise the
// text of the first <title> element is used. Empty values do not count as a
// match. The only errors returned are read errors from r.
func ExtractTitle(r io.Reader) (string, error) {
	const op = "metadata.ExtractTitle"

	z := html.NewTokenizer(r)

	var (
		title   string
		inTitle bool
		buf     strings.Builder
	)

	for {
		tt := z.Next()

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%s: failed to read document: %w", op, err)
			}

			if title != "" {
				return title, nil
			}

			return Untitled, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()

			switch atom.Lookup(name) {
			case atom.Meta:
				if content, ok := ogTitle(z, hasAttr); ok {
					return content, nil
				}
			case atom.Title:
				if title == "" && tt == html.StartTagToken {
					inTitle = true
					buf.Reset()
				}
			}

		case html.TextToken:
			if inTitle {
				buf.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()

			if inTitle && atom.Lookup(name) == atom.Title {
				inTitle = false
				title = strings.TrimSpace(buf.String())
			}
		}
	}
}

// ogTitle reports the content attribute of the current meta tag when it
// carries property="og:title" and a non-empty content.
func ogTitle(z *html.Tokenizer, hasAttr bool) (string, bool) {
	var property, content string

	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()

		switch string(key) {
		case "property":
			property = string(val)
		case "content":
			content = strings.TrimSpace(string(val))
		}
	}

	if property != ogTitleProperty || content == "" {
		return "", false
	}

	return content, true
}
