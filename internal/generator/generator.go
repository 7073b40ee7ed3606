// Package generator turns a document's element list into a standalone HTML
// page.
//
// Each element kind maps to a fixed markup block; blocks are joined in list
// order and wrapped in a document skeleton with an inline stylesheet. The
// output depends only on the elements and options, so generating twice
// yields byte-identical documents. All user-supplied text and color values
// are HTML-escaped. Elements of an unknown kind produce no markup.
package generator

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/pagebuilder/internal/element"
)

// DefaultTitle is the <title> of exported pages.
const DefaultTitle = "My Website"

// Stylesheet is the shared <style> block embedded in every exported page.
const Stylesheet = `<style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif; }
        .container { width: 100%; }
        .section { padding: 2rem; width: 100%; }
        h1, h2, h3 { margin-bottom: 1rem; }
        p { margin-bottom: 1rem; line-height: 1.6; }
        input, textarea { padding: 0.5rem; margin: 0.5rem 0; border: 1px solid #ccc; border-radius: 4px; }
        button { padding: 0.5rem 1rem; background: #3b82f6; color: white; border: none; border-radius: 4px; cursor: pointer; }
        button:hover { background: #2563eb; }
    </style>`

// Options tune document generation.
type Options struct {
	// Title is the page <title>; DefaultTitle when empty.
	Title string
	// OnSkip is called for every element that produced no markup.
	OnSkip func(e element.Element)
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

// Generate renders the full document into a string.
func Generate(elements []element.Element, opts Options) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = Render(context.Background(), &sb, elements, opts)
	return sb.String()
}

// Render writes the full document to w.
func Render(ctx context.Context, w io.Writer, elements []element.Element, opts Options) error {
	return Document(elements, opts).Render(ctx, w)
}

// Document returns the page as a templ component.
func Document(elements []element.Element, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n"+
			"<html lang=\"en\">\n"+
			"<head>\n"+
			"    <meta charset=\"UTF-8\">\n"+
			"    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n"+
			"    <title>"+templ.EscapeString(opts.title())+"</title>\n"+
			"    "+Stylesheet+"\n"+
			"</head>\n"+
			"<body>\n    "); err != nil {
			return err
		}
		if err := Body(elements, opts).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>")
		return err
	})
}

// Body returns the concatenated element blocks, separated by newlines.
func Body(elements []element.Element, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		first := true
		for _, e := range elements {
			if !Renders(e) {
				if opts.OnSkip != nil {
					opts.OnSkip(e)
				}
				continue
			}
			if !first {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			first = false
			if err := Block(e).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Renders reports whether e produces markup.
func Renders(e element.Element) bool {
	switch e.(type) {
	case element.Header, element.Hero, element.Section, element.Contact:
		return true
	default:
		return false
	}
}

// Block returns the markup block for one element. Unknown kinds render
// nothing.
func Block(e element.Element) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, blockHTML(e))
		return err
	})
}

func blockHTML(e element.Element) string {
	attrs := `class="section" ` + styleAttr(e.Palette())
	esc := templ.EscapeString[string]

	switch v := e.(type) {
	case element.Header:
		return `<header ` + attrs + `><h1>` + esc(v.Text) + `</h1></header>`
	case element.Hero:
		return `<section ` + attrs + `><h2>` + esc(v.Text) + `</h2><p>` + esc(v.Description) + `</p></section>`
	case element.Section:
		return `<section ` + attrs + `><h3>` + esc(v.Title) + `</h3><p>` + esc(v.Content) + `</p></section>`
	case element.Contact:
		return `<section ` + attrs + `><h3>` + esc(v.Title) + `</h3>` + contactForm + `</section>`
	default:
		return ""
	}
}

const contactForm = `<form><input type="email" placeholder="Email" required><textarea placeholder="Message" required></textarea><button type="submit">Send</button></form>`

func styleAttr(c element.Colors) string {
	return `style="background-color: ` + templ.EscapeString(c.BackgroundOrDefault()) +
		`; color: ` + templ.EscapeString(c.TextOrDefault()) + `;"`
}
