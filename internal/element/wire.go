package element

import (
	"encoding/json"
	"fmt"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
)

// Wire is the flat JSON shape of an element, shared by the editor API and
// the template listing.
type Wire struct {
	ID          ID     `json:"id,omitempty" yaml:"id,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Content     string `json:"content,omitempty" yaml:"content,omitempty"`
	BgColor     string `json:"bgColor,omitempty" yaml:"bgColor,omitempty"`
	TextColor   string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
}

// ErrCodeUnknownKind is the error code reported for unrecognized types.
const ErrCodeUnknownKind = "ELEMENT_UNKNOWN_KIND"

// ToWire flattens e.
func ToWire(e Element) Wire {
	c := e.Palette()
	w := Wire{
		ID:        e.ElementID(),
		Type:      string(e.Kind()),
		BgColor:   c.Background,
		TextColor: c.Text,
	}
	switch v := e.(type) {
	case Header:
		w.Text = v.Text
	case Hero:
		w.Text = v.Text
		w.Description = v.Description
	case Section:
		w.Title = v.Title
		w.Content = v.Content
	case Contact:
		w.Title = v.Title
	}
	return w
}

// FromWire builds the variant named by w.Type. Fields the variant does not
// carry are dropped. An unrecognized type yields an Unknown element together
// with a recoverable validation error; callers may keep the element and
// treat the error as a warning.
func FromWire(w Wire) (Element, error) {
	colors := Colors{Background: w.BgColor, Text: w.TextColor}
	switch Kind(w.Type) {
	case KindHeader:
		return Header{ID: w.ID, Text: w.Text, Colors: colors}, nil
	case KindHero:
		return Hero{ID: w.ID, Text: w.Text, Description: w.Description, Colors: colors}, nil
	case KindSection:
		return Section{ID: w.ID, Title: w.Title, Content: w.Content, Colors: colors}, nil
	case KindContact:
		return Contact{ID: w.ID, Title: w.Title, Colors: colors}, nil
	default:
		err := builderrors.NewValidationError(
			ErrCodeUnknownKind,
			fmt.Sprintf("unknown element type %q", w.Type),
		).WithContext("type", w.Type)
		return Unknown{ID: w.ID, Type: w.Type, Colors: colors}, err
	}
}

// ToWireList flattens a list, preserving order.
func ToWireList(elements []Element) []Wire {
	out := make([]Wire, len(elements))
	for i, e := range elements {
		out[i] = ToWire(e)
	}
	return out
}

// FromWireList decodes a list. Every entry is kept; warnings for unknown
// types are returned alongside.
func FromWireList(ws []Wire) ([]Element, []error) {
	out := make([]Element, 0, len(ws))
	var warnings []error
	for _, w := range ws {
		e, err := FromWire(w)
		if err != nil {
			warnings = append(warnings, err)
		}
		out = append(out, e)
	}
	return out, warnings
}

// Marshal encodes e as JSON.
func Marshal(e Element) ([]byte, error) {
	return json.Marshal(ToWire(e))
}

// Unmarshal decodes one JSON element. Malformed JSON is an error and yields
// a nil element; an unknown type follows FromWire.
func Unmarshal(data []byte) (Element, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, builderrors.NewValidationError("ELEMENT_DECODE", "invalid element JSON").
			WithCause(err)
	}
	return FromWire(w)
}
