package editor

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/pagebuilder/internal/catalog"
)

// PanelView lists the actions the control panel offers.
type PanelView struct {
	Templates  []catalog.Template
	Palette    []catalog.PaletteEntry
	Mode       Mode
	ExportName string
}

// Panel renders the control panel: templates, the element palette, the mode
// toggle, reset and export.
func Panel(view PanelView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		var sb strings.Builder

		sb.WriteString(`<aside id="panel" class="pb-panel">`)
		sb.WriteString(`<h2>Website Builder</h2>`)

		sb.WriteString(`<section><h3>Templates</h3>`)
		for _, t := range view.Templates {
			sb.WriteString(`<button type="button" data-action="template" data-key="` + esc(t.Key) + `">` +
				esc(t.Name) + `</button>`)
		}
		sb.WriteString(`</section>`)

		sb.WriteString(`<section><h3>Add Elements</h3>`)
		for _, p := range view.Palette {
			sb.WriteString(`<button type="button" data-action="add" data-kind="` + esc(p.Kind.String()) + `">` +
				esc(p.Label) + `</button>`)
		}
		sb.WriteString(`</section>`)

		label := "Preview"
		if view.Mode == ModePreview {
			label = "Edit"
		}
		exportName := view.ExportName
		if exportName == "" {
			exportName = "index.html"
		}

		sb.WriteString(`<section><h3>Actions</h3>`)
		sb.WriteString(`<button type="button" id="mode-toggle" data-action="mode" data-mode="` +
			string(view.Mode.Toggle()) + `">` + label + `</button>`)
		sb.WriteString(`<button type="button" data-action="reset">Reset</button>`)
		sb.WriteString(`<a class="pb-export" href="/export" download="` + esc(exportName) + `">Export HTML</a>`)
		sb.WriteString(`</section>`)

		sb.WriteString(`</aside>`)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
