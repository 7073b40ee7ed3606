// Package element defines the page element model for pagebuilder.
//
// A page is an ordered list of elements. Each element kind is its own Go
// type carrying only the fields that kind renders, so consumers switch on
// the concrete type instead of comparing type strings. Every element has an
// immutable ID assigned when it enters a document and an optional pair of
// colors applied at render time.
package element

// Kind identifies the element variant. It is also the value of the "type"
// field in the JSON wire format.
type Kind string

const (
	KindHeader  Kind = "header"
	KindHero    Kind = "hero"
	KindSection Kind = "section"
	KindContact Kind = "contact"
)

// Kinds returns the known kinds in palette order.
func Kinds() []Kind {
	return []Kind{KindHeader, KindHero, KindSection, KindContact}
}

// Known reports whether k is one of the four element kinds.
func (k Kind) Known() bool {
	switch k {
	case KindHeader, KindHero, KindSection, KindContact:
		return true
	default:
		return false
	}
}

// String returns the kind as a string
func (k Kind) String() string {
	return string(k)
}

// ID uniquely identifies an element within a document.
type ID string

// Default colors applied when an element leaves a color empty.
const (
	DefaultBackground = "#ffffff"
	DefaultText       = "#000000"
)

// Colors holds the user-editable colors of an element. Empty values mean
// "use the default". So do values that are not a plain color, since colors
// are emitted inside style attributes.
type Colors struct {
	Background string
	Text       string
}

// BackgroundOrDefault returns the background color or DefaultBackground.
func (c Colors) BackgroundOrDefault() string {
	if !IsColor(c.Background) {
		return DefaultBackground
	}
	return c.Background
}

// TextOrDefault returns the text color or DefaultText.
func (c Colors) TextOrDefault() string {
	if !IsColor(c.Text) {
		return DefaultText
	}
	return c.Text
}

// IsColor accepts hex colors (#rgb, #rgba, #rrggbb, #rrggbbaa) and bare
// color keywords such as "red" or "transparent".
func IsColor(s string) bool {
	if s == "" || len(s) > 32 {
		return false
	}
	if s[0] == '#' {
		switch len(s) - 1 {
		case 3, 4, 6, 8:
		default:
			return false
		}
		for _, r := range s[1:] {
			if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F') {
				return false
			}
		}
		return true
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}

// Element is implemented by every element variant.
type Element interface {
	ElementID() ID
	Kind() Kind
	Palette() Colors

	withID(id ID) Element
	apply(p Patch) Element
}

// Header is a page header rendered as <header><h1>.
type Header struct {
	ID     ID
	Text   string
	Colors Colors
}

// Hero is a hero banner with a heading and a description.
type Hero struct {
	ID          ID
	Text        string
	Description string
	Colors      Colors
}

// Section is a titled content block.
type Section struct {
	ID      ID
	Title   string
	Content string
	Colors  Colors
}

// Contact is a titled contact form.
type Contact struct {
	ID     ID
	Title  string
	Colors Colors
}

// Unknown holds an element whose type string is not a known kind. It keeps
// its place in the document but renders nothing.
type Unknown struct {
	ID     ID
	Type   string
	Colors Colors
}

func (e Header) ElementID() ID  { return e.ID }
func (e Hero) ElementID() ID    { return e.ID }
func (e Section) ElementID() ID { return e.ID }
func (e Contact) ElementID() ID { return e.ID }
func (e Unknown) ElementID() ID { return e.ID }

func (Header) Kind() Kind    { return KindHeader }
func (Hero) Kind() Kind      { return KindHero }
func (Section) Kind() Kind   { return KindSection }
func (Contact) Kind() Kind   { return KindContact }
func (e Unknown) Kind() Kind { return Kind(e.Type) }

func (e Header) Palette() Colors  { return e.Colors }
func (e Hero) Palette() Colors    { return e.Colors }
func (e Section) Palette() Colors { return e.Colors }
func (e Contact) Palette() Colors { return e.Colors }
func (e Unknown) Palette() Colors { return e.Colors }

func (e Header) withID(id ID) Element  { e.ID = id; return e }
func (e Hero) withID(id ID) Element    { e.ID = id; return e }
func (e Section) withID(id ID) Element { e.ID = id; return e }
func (e Contact) withID(id ID) Element { e.ID = id; return e }
func (e Unknown) withID(id ID) Element { e.ID = id; return e }

// WithID returns a copy of e carrying id. Drafts become document elements
// through this call; it is the only way an ID is set.
func WithID(e Element, id ID) Element {
	return e.withID(id)
}

// New returns an empty draft of the given kind. Unknown kinds yield an
// Unknown draft.
func New(kind Kind) Element {
	switch kind {
	case KindHeader:
		return Header{}
	case KindHero:
		return Hero{}
	case KindSection:
		return Section{}
	case KindContact:
		return Contact{}
	default:
		return Unknown{Type: string(kind)}
	}
}
