// Package markdown implements the markdown-lite dialect used by learn-more
// card content: bold, italic, inline code, links, bullet lists, and literal
// HTML tag passthrough. Input parses into a node tree; escaping happens at
// render time, so raw tags never round-trip through sentinel strings.
package markdown

import "strings"

// Variant selects per-card parsing and rendering behavior.
type Variant int

const (
	// FieldGuide is the plain variant.
	FieldGuide Variant = iota
	// TryAtHome treats a bolded leading segment of each bullet as the item
	// title and the remaining text as its description.
	TryAtHome
	// Videos tags rendered links with a styling class.
	Videos
)

// InlineKind discriminates inline nodes.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineBold
	InlineItalic
	InlineCode
	InlineLink
	// InlineHTML is a literal HTML tag from the source, emitted unescaped.
	InlineHTML
)

// Inline is one inline node. Text carries the content (or the raw tag for
// InlineHTML); Href is set for links only.
type Inline struct {
	Kind InlineKind
	Text string
	Href string
}

// BlockKind discriminates block nodes.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockList
)

// ListItem is one bullet. Title is non-empty only for the TryAtHome variant
// when the bullet led with a bold segment.
type ListItem struct {
	Title   string
	Inlines []Inline
}

// Block is a paragraph (Inlines) or a bullet list (Items).
type Block struct {
	Kind    BlockKind
	Inlines []Inline
	Items   []ListItem
}

// Document is parsed markdown-lite content.
type Document struct {
	Variant Variant
	Blocks  []Block
}

// Parse builds a Document from markdown-lite source. Consecutive lines
// beginning with "* " group into one list; every other non-blank line is a
// paragraph. Parse never fails: malformed markup stays literal text.
func Parse(src string, variant Variant) Document {
	doc := Document{Variant: variant}

	var list []ListItem
	flushList := func() {
		if len(list) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockList, Items: list})
			list = nil
		}
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushList()
			continue
		}

		if bullet, ok := strings.CutPrefix(trimmed, "* "); ok {
			list = append(list, parseListItem(bullet, variant))
			continue
		}

		flushList()
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph, Inlines: parseInlines(trimmed)})
	}
	flushList()

	return doc
}

func parseListItem(text string, variant Variant) ListItem {
	inlines := parseInlines(text)

	if variant == TryAtHome && len(inlines) > 0 && inlines[0].Kind == InlineBold {
		return ListItem{
			Title:   inlines[0].Text,
			Inlines: trimLeadingSpace(inlines[1:]),
		}
	}
	return ListItem{Inlines: inlines}
}

func trimLeadingSpace(inlines []Inline) []Inline {
	if len(inlines) > 0 && inlines[0].Kind == InlineText {
		inlines[0].Text = strings.TrimLeft(inlines[0].Text, " ")
		if inlines[0].Text == "" {
			return inlines[1:]
		}
	}
	return inlines
}

// parseInlines scans one line. Unclosed markers fall back to literal text.
func parseInlines(s string) []Inline {
	var nodes []Inline
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Inline{Kind: InlineText, Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			if end := strings.Index(s[i+2:], "**"); end >= 0 {
				flushText()
				nodes = append(nodes, Inline{Kind: InlineBold, Text: s[i+2 : i+2+end]})
				i += end + 4
				continue
			}
			text.WriteString("**")
			i += 2

		case s[i] == '*':
			if end := strings.IndexByte(s[i+1:], '*'); end >= 0 {
				flushText()
				nodes = append(nodes, Inline{Kind: InlineItalic, Text: s[i+1 : i+1+end]})
				i += end + 2
				continue
			}
			text.WriteByte('*')
			i++

		case s[i] == '`':
			if end := strings.IndexByte(s[i+1:], '`'); end >= 0 {
				flushText()
				nodes = append(nodes, Inline{Kind: InlineCode, Text: s[i+1 : i+1+end]})
				i += end + 2
				continue
			}
			text.WriteByte('`')
			i++

		case s[i] == '[':
			if label, href, rest, ok := parseLink(s[i:]); ok {
				flushText()
				nodes = append(nodes, Inline{Kind: InlineLink, Text: label, Href: href})
				i += len(s[i:]) - len(rest)
				continue
			}
			text.WriteByte('[')
			i++

		case s[i] == '<' && isHTMLTagStart(s[i:]):
			end := strings.IndexByte(s[i:], '>')
			flushText()
			nodes = append(nodes, Inline{Kind: InlineHTML, Text: s[i : i+end+1]})
			i += end + 1

		default:
			text.WriteByte(s[i])
			i++
		}
	}
	flushText()

	return nodes
}

// parseLink matches "[label](href)" at the start of s.
func parseLink(s string) (label, href, rest string, ok bool) {
	close := strings.IndexByte(s, ']')
	if close < 0 || close+1 >= len(s) || s[close+1] != '(' {
		return "", "", "", false
	}
	end := strings.IndexByte(s[close+2:], ')')
	if end < 0 {
		return "", "", "", false
	}
	return s[1:close], s[close+2 : close+2+end], s[close+2+end+1:], true
}

// isHTMLTagStart reports whether s begins a complete literal tag: "<" followed
// by a letter, "/" or "!", with a closing ">" on the same line.
func isHTMLTagStart(s string) bool {
	if len(s) < 3 {
		return false
	}
	c := s[1]
	if !(c == '/' || c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	return strings.IndexByte(s, '>') > 0
}
