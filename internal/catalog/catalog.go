// Package catalog holds the built-in page templates and the element palette.
//
// Both are static and read-only. Template elements are drafts: they carry
// no IDs, and the store assigns fresh IDs every time a template is loaded.
package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/pagebuilder/internal/element"
)

// Template is a named, pre-built starting set of elements.
type Template struct {
	Key      string
	Name     string
	Elements []element.Element
}

// Drafts returns a copy of the template elements.
func (t Template) Drafts() []element.Element {
	out := make([]element.Element, len(t.Elements))
	copy(out, t.Elements)
	return out
}

// DisplayName turns a template key into its label, e.g. "portfolio" into
// "Portfolio". Casers are stateful, so each call gets its own.
func DisplayName(key string) string {
	return cases.Title(language.English).String(key)
}

var order = []string{"blank", "portfolio", "business", "blog"}

var templates = map[string][]element.Element{
	"blank": {},
	"portfolio": {
		element.Header{
			Text:   "My Portfolio",
			Colors: element.Colors{Background: "#1f2937", Text: "#ffffff"},
		},
		element.Hero{
			Text:        "Welcome to my portfolio",
			Description: "Showcasing my best work",
			Colors:      element.Colors{Background: "#3b82f6", Text: "#ffffff"},
		},
		element.Section{
			Title:   "My Projects",
			Content: "Featured projects and achievements",
			Colors:  element.Colors{Background: "#ffffff"},
		},
	},
	"business": {
		element.Header{
			Text:   "My Business",
			Colors: element.Colors{Background: "#065f46", Text: "#ffffff"},
		},
		element.Hero{
			Text:        "Professional Services",
			Description: "Quality and Excellence",
			Colors:      element.Colors{Background: "#059669", Text: "#ffffff"},
		},
		element.Contact{
			Title:  "Get In Touch",
			Colors: element.Colors{Background: "#f3f4f6"},
		},
	},
	"blog": {
		element.Header{
			Text:   "My Blog",
			Colors: element.Colors{Background: "#7c3aed", Text: "#ffffff"},
		},
		element.Hero{
			Text:        "Thoughts & Stories",
			Description: "Sharing my insights and experiences",
			Colors:      element.Colors{Background: "#a855f7", Text: "#ffffff"},
		},
	},
}

// Keys returns the template keys in display order.
func Keys() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Lookup returns the template with the given key.
func Lookup(key string) (Template, bool) {
	elements, ok := templates[key]
	if !ok {
		return Template{}, false
	}
	return Template{Key: key, Name: DisplayName(key), Elements: elements}, true
}

// All returns every template in display order.
func All() []Template {
	out := make([]Template, 0, len(order))
	for _, key := range order {
		t, _ := Lookup(key)
		out = append(out, t)
	}
	return out
}
