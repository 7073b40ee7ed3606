package element

// Patch is a partial update. Nil fields are left untouched. Fields that the
// target variant does not carry are ignored.
type Patch struct {
	Text        *string `json:"text,omitempty"`
	Description *string `json:"description,omitempty"`
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	BgColor     *string `json:"bgColor,omitempty"`
	TextColor   *string `json:"textColor,omitempty"`
}

// String returns a pointer to s, for building patches inline.
func String(s string) *string {
	return &s
}

// Empty reports whether the patch sets no field at all.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Description == nil && p.Title == nil &&
		p.Content == nil && p.BgColor == nil && p.TextColor == nil
}

// Apply merges p into e and returns the result. ID and kind never change.
func Apply(e Element, p Patch) Element {
	return e.apply(p)
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (c Colors) apply(p Patch) Colors {
	set(&c.Background, p.BgColor)
	set(&c.Text, p.TextColor)
	return c
}

func (e Header) apply(p Patch) Element {
	set(&e.Text, p.Text)
	e.Colors = e.Colors.apply(p)
	return e
}

func (e Hero) apply(p Patch) Element {
	set(&e.Text, p.Text)
	set(&e.Description, p.Description)
	e.Colors = e.Colors.apply(p)
	return e
}

func (e Section) apply(p Patch) Element {
	set(&e.Title, p.Title)
	set(&e.Content, p.Content)
	e.Colors = e.Colors.apply(p)
	return e
}

func (e Contact) apply(p Patch) Element {
	set(&e.Title, p.Title)
	e.Colors = e.Colors.apply(p)
	return e
}

func (e Unknown) apply(p Patch) Element {
	e.Colors = e.Colors.apply(p)
	return e
}
