// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// CodeBlock is one fenced block extracted from message text.
type CodeBlock struct {
	Language string
	Code     string
}

// ParseCodeBlocks walks the text for ``` fences. An unclosed fence at
// the end of the text still yields a block; streams are often cut off
// mid-code.
func ParseCodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	lines := strings.Split(text, "\n")

	inBlock := false
	var language string
	var code []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				blocks = append(blocks, CodeBlock{
					Language: language,
					Code:     strings.Join(code, "\n"),
				})
				inBlock = false
				language = ""
				code = nil
			} else {
				inBlock = true
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		if inBlock {
			code = append(code, line)
		}
	}

	if inBlock {
		blocks = append(blocks, CodeBlock{
			Language: language,
			Code:     strings.Join(code, "\n"),
		})
	}
	return blocks
}

// highlightFences renders text with only the fenced code blocks
// highlighted, used when markdown rendering is switched off.
func highlightFences(text string, width int) string {
	lines := strings.Split(text, "\n")
	var out []string

	inBlock := false
	var language string
	var code []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				out = append(out, Highlight(strings.Join(code, "\n"), language))
				inBlock = false
				language = ""
				code = nil
			} else {
				inBlock = true
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		if inBlock {
			code = append(code, line)
		} else {
			out = append(out, line)
		}
	}
	if inBlock {
		out = append(out, Highlight(strings.Join(code, "\n"), language))
	}
	return strings.Join(out, "\n")
}

// Highlight colorizes code for the terminal. Unknown languages are
// analyzed by content, falling back to no coloring.
func Highlight(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get("monokai")
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(sb.String(), "\n")
}
