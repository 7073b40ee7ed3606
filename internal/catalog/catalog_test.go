package catalog

import (
	"testing"

	"github.com/conneroisu/pagebuilder/internal/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysOrder(t *testing.T) {
	assert.Equal(t, []string{"blank", "portfolio", "business", "blog"}, Keys())
}

func TestDisplayName(t *testing.T) {
	testCases := map[string]string{
		"blank":     "Blank",
		"portfolio": "Portfolio",
		"business":  "Business",
		"blog":      "Blog",
	}
	for key, want := range testCases {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, want, DisplayName(key))
		})
	}
}

func TestLookup(t *testing.T) {
	blank, ok := Lookup("blank")
	require.True(t, ok)
	assert.Empty(t, blank.Elements)
	assert.Equal(t, "Blank", blank.Name)

	_, ok = Lookup("landing")
	assert.False(t, ok)
}

func TestPortfolioTemplate(t *testing.T) {
	p, ok := Lookup("portfolio")
	require.True(t, ok)
	require.Len(t, p.Elements, 3)

	header := p.Elements[0].(element.Header)
	assert.Equal(t, "My Portfolio", header.Text)
	assert.Equal(t, element.Colors{Background: "#1f2937", Text: "#ffffff"}, header.Colors)

	hero := p.Elements[1].(element.Hero)
	assert.Equal(t, "Welcome to my portfolio", hero.Text)
	assert.Equal(t, "Showcasing my best work", hero.Description)

	section := p.Elements[2].(element.Section)
	assert.Equal(t, "My Projects", section.Title)
	assert.Equal(t, "Featured projects and achievements", section.Content)
	assert.Equal(t, "", section.Colors.Text)
}

func TestBusinessAndBlog(t *testing.T) {
	business, _ := Lookup("business")
	require.Len(t, business.Elements, 3)
	assert.Equal(t, element.KindContact, business.Elements[2].Kind())

	blog, _ := Lookup("blog")
	require.Len(t, blog.Elements, 2)
	assert.Equal(t, "Thoughts & Stories", blog.Elements[1].(element.Hero).Text)
}

func TestTemplateDraftsCarryNoIDs(t *testing.T) {
	for _, tmpl := range All() {
		for _, d := range tmpl.Drafts() {
			assert.Equal(t, element.ID(""), d.ElementID(), tmpl.Key)
		}
	}
}

func TestDraftsIsACopy(t *testing.T) {
	p, _ := Lookup("portfolio")
	d := p.Drafts()
	d[0] = element.Contact{}

	again, _ := Lookup("portfolio")
	assert.Equal(t, element.KindHeader, again.Elements[0].Kind())
}

func TestPalette(t *testing.T) {
	entries := Palette()
	require.Len(t, entries, 4)

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
		assert.Equal(t, e.Kind, e.Draft.Kind())
	}
	assert.Equal(t, []string{"Header", "Hero Section", "Section", "Contact Form"}, labels)

	d, ok := DefaultDraft(element.KindSection)
	require.True(t, ok)
	assert.Equal(t, "Section content goes here", d.(element.Section).Content)

	_, ok = DefaultDraft("footer")
	assert.False(t, ok)
}
