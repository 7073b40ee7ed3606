package catalog

import "github.com/conneroisu/pagebuilder/internal/element"

// PaletteEntry is one "add element" choice with the draft it inserts.
type PaletteEntry struct {
	Kind  element.Kind
	Label string
	Draft element.Element
}

var palette = []PaletteEntry{
	{
		Kind:  element.KindHeader,
		Label: "Header",
		Draft: element.Header{
			Text:   "Header Text",
			Colors: element.Colors{Background: "#1f2937", Text: "#ffffff"},
		},
	},
	{
		Kind:  element.KindHero,
		Label: "Hero Section",
		Draft: element.Hero{
			Text:        "Hero Title",
			Description: "Hero Subtitle",
			Colors:      element.Colors{Background: "#3b82f6", Text: "#ffffff"},
		},
	},
	{
		Kind:  element.KindSection,
		Label: "Section",
		Draft: element.Section{
			Title:   "Section Title",
			Content: "Section content goes here",
			Colors:  element.Colors{Background: "#ffffff"},
		},
	},
	{
		Kind:  element.KindContact,
		Label: "Contact Form",
		Draft: element.Contact{
			Title:  "Get In Touch",
			Colors: element.Colors{Background: "#f3f4f6"},
		},
	},
}

// Palette returns the element choices in display order.
func Palette() []PaletteEntry {
	out := make([]PaletteEntry, len(palette))
	copy(out, palette)
	return out
}

// DefaultDraft returns the palette draft for kind.
func DefaultDraft(kind element.Kind) (element.Element, bool) {
	for _, p := range palette {
		if p.Kind == kind {
			return p.Draft, true
		}
	}
	return nil, false
}
