// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/morganforge/sarkar-tui/internal/transcript"
)

// =============================================================================
// SANITIZER POLICY
// =============================================================================

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the allow-list sanitizer for exported assistant HTML.
// Everything not explicitly allowed is stripped; script, iframe, object,
// embed and all on* handlers never survive.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()

		// Prose and structure.
		p.AllowElements(
			"p", "br", "hr", "strong", "em", "del", "s",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "pre", "code",
			"ul", "ol", "li",
			"table", "thead", "tbody", "tr", "th", "td",
			"span", "div", "button",
		)
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("href", "target", "rel").OnElements("a")
		p.AllowAttrs("src", "alt", "title").OnElements("img")
		p.AllowAttrs("data-action").OnElements("button")
		p.AllowElements("a", "img")
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireNoFollowOnLinks(true)

		policy = p
	})
	return policy
}

// =============================================================================
// MARKDOWN TO HTML
// =============================================================================

// mdEngine converts assistant markdown with GFM tables/strikethrough
// and single newlines as hard breaks, matching how the chat renders.
var mdEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// MarkdownToHTML converts assistant markdown to sanitized HTML.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdEngine.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	out := insertCopyButtons(buf.String())
	return Policy().Sanitize(out), nil
}

// insertCopyButtons prefixes each <pre> block with a copy control so
// exports keep the same affordance the live view has.
func insertCopyButtons(htmlText string) string {
	return strings.ReplaceAll(htmlText, "<pre>",
		`<button class="copy-code-btn" data-action="copy">Copy</button><pre>`)
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportHTML renders the whole transcript as a standalone HTML page.
// Assistant messages go through markdown and the sanitizer; user
// messages are escaped verbatim.
func ExportHTML(tr *transcript.Transcript, title string) (string, error) {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n</head>\n<body>\n")
	sb.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")

	for _, m := range tr.Messages() {
		switch {
		case m.IsUser:
			sb.WriteString(`<div class="message user"><p>` + html.EscapeString(m.Text()) + "</p></div>\n")
		case m.IsError:
			sb.WriteString(`<div class="message error"><p>` + html.EscapeString(m.Text()) + "</p></div>\n")
		default:
			body, err := MarkdownToHTML(m.Text())
			if err != nil {
				return "", err
			}
			sb.WriteString(`<div class="message assistant">` + body + "</div>\n")
		}
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
