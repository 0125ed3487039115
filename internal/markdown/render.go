package markdown

import (
	"html"
	"strings"
)

// RenderHTML renders a parsed document. All source text is escaped; only
// InlineHTML nodes pass through verbatim. Videos-variant links carry the
// video-link class.
func RenderHTML(doc Document) string {
	var sb strings.Builder

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockParagraph:
			sb.WriteString("<p>")
			renderInlines(&sb, block.Inlines, doc.Variant)
			sb.WriteString("</p>")

		case BlockList:
			sb.WriteString("<ul>")
			for _, item := range block.Items {
				sb.WriteString("<li>")
				if item.Title != "" {
					sb.WriteString(`<span class="item-title">`)
					sb.WriteString(html.EscapeString(item.Title))
					sb.WriteString(`</span><span class="item-desc">`)
					renderInlines(&sb, item.Inlines, doc.Variant)
					sb.WriteString("</span>")
				} else {
					renderInlines(&sb, item.Inlines, doc.Variant)
				}
				sb.WriteString("</li>")
			}
			sb.WriteString("</ul>")
		}
	}

	return sb.String()
}

func renderInlines(sb *strings.Builder, inlines []Inline, variant Variant) {
	for _, in := range inlines {
		switch in.Kind {
		case InlineText:
			sb.WriteString(html.EscapeString(in.Text))
		case InlineBold:
			sb.WriteString("<strong>")
			sb.WriteString(html.EscapeString(in.Text))
			sb.WriteString("</strong>")
		case InlineItalic:
			sb.WriteString("<em>")
			sb.WriteString(html.EscapeString(in.Text))
			sb.WriteString("</em>")
		case InlineCode:
			sb.WriteString("<code>")
			sb.WriteString(html.EscapeString(in.Text))
			sb.WriteString("</code>")
		case InlineLink:
			sb.WriteString(`<a href="`)
			sb.WriteString(html.EscapeString(in.Href))
			if variant == Videos {
				sb.WriteString(`" class="video-link`)
			}
			sb.WriteString(`" target="_blank" rel="noopener">`)
			sb.WriteString(html.EscapeString(in.Text))
			sb.WriteString("</a>")
		case InlineHTML:
			sb.WriteString(in.Text)
		}
	}
}
