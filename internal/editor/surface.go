// Package editor renders the browser-side editor: the control panel, the
// render surface and the page that hosts both.
//
// Everything is rendered on the server as templ components. The page ships
// a small script that turns control clicks and field edits into calls to the
// editor API and re-fetches the surface when the server announces a change
// over the websocket.
package editor

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/pagebuilder/internal/element"
	"github.com/conneroisu/pagebuilder/internal/generator"
)

// SurfaceView is everything the render surface needs.
type SurfaceView struct {
	Elements []element.Element
	Current  element.ID
	Mode     Mode
}

// Surface renders every element in order, editable or static depending on
// the mode.
func Surface(view SurfaceView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div id="surface" class="pb-surface" data-mode="` + string(view.Mode) + `">`)
		if len(view.Elements) == 0 {
			sb.WriteString(`<p class="pb-empty">Add an element or load a template to get started.</p>`)
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		for _, e := range view.Elements {
			if err := block(e, e.ElementID() == view.Current && view.Current != "", view.Mode).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func block(e element.Element, selected bool, mode Mode) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(string(e.ElementID()))
		class := "pb-block"
		if selected {
			class += " pb-selected"
		}

		var sb strings.Builder
		sb.WriteString(`<div class="` + class + `" data-id="` + id + `" data-kind="` +
			templ.EscapeString(e.Kind().String()) + `">`)
		sb.WriteString(`<div class="pb-controls">`)
		sb.WriteString(`<button type="button" data-action="select" title="Select">Select</button>`)
		sb.WriteString(`<button type="button" data-action="delete" title="Delete">Delete</button>`)
		sb.WriteString(`</div>`)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		var err error
		switch {
		case !generator.Renders(e):
			_, err = io.WriteString(w, `<p class="pb-unknown">Unsupported element type "`+
				templ.EscapeString(e.Kind().String())+`"</p>`)
		case mode == ModePreview:
			err = generator.Block(e).Render(ctx, w)
		default:
			_, err = io.WriteString(w, editableHTML(e))
		}
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `</div>`)
		return err
	})
}

// editableHTML lays out the inputs for one element inside a block styled
// with the element's colors.
func editableHTML(e element.Element) string {
	c := e.Palette()
	var sb strings.Builder
	sb.WriteString(`<div class="section" style="background-color: ` + templ.EscapeString(c.BackgroundOrDefault()) +
		`; color: ` + templ.EscapeString(c.TextOrDefault()) + `;">`)

	switch v := e.(type) {
	case element.Header:
		sb.WriteString(textInput("text", v.Text, "pb-h1"))
	case element.Hero:
		sb.WriteString(textInput("text", v.Text, "pb-h2"))
		sb.WriteString(textArea("description", v.Description))
	case element.Section:
		sb.WriteString(textInput("title", v.Title, "pb-h3"))
		sb.WriteString(textArea("content", v.Content))
	case element.Contact:
		sb.WriteString(textInput("title", v.Title, "pb-h3"))
		sb.WriteString(`<div class="pb-form-preview"><input type="email" placeholder="Email" disabled>` +
			`<textarea placeholder="Message" disabled></textarea><button type="button" disabled>Send</button></div>`)
	}

	sb.WriteString(`<div class="pb-colors">`)
	sb.WriteString(colorInput("bgColor", "Background", c.BackgroundOrDefault()))
	sb.WriteString(colorInput("textColor", "Text", c.TextOrDefault()))
	sb.WriteString(`</div></div>`)
	return sb.String()
}

func textInput(field, value, class string) string {
	return `<input type="text" class="pb-field ` + class + `" data-field="` + field + `" value="` +
		templ.EscapeString(value) + `">`
}

func textArea(field, value string) string {
	return `<textarea class="pb-field" data-field="` + field + `">` + templ.EscapeString(value) + `</textarea>`
}

func colorInput(field, label, value string) string {
	return `<label>` + label + ` <input type="color" class="pb-field" data-field="` + field + `" value="` +
		templ.EscapeString(value) + `"></label>`
}
