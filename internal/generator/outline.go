package generator

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/element"
)

// ErrCodeOutline marks a document that could not be parsed back.
const ErrCodeOutline = "GENERATOR_OUTLINE"

// OutlineBlock summarizes one top-level block of a generated page.
type OutlineBlock struct {
	Kind       element.Kind
	Tag        string
	Heading    string
	Body       string
	Background string
	Color      string
	HasForm    bool
}

// Outline parses a generated page and lists its blocks in body order. It is
// used to summarize exports and to check generator output structurally.
func Outline(document string) ([]OutlineBlock, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, builderrors.NewValidationError(ErrCodeOutline, "parse document").WithCause(err)
	}

	body := find(root, atom.Body)
	if body == nil {
		return nil, builderrors.NewValidationError(ErrCodeOutline, "document has no body")
	}

	var blocks []OutlineBlock
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || !hasClass(n, "section") {
			continue
		}
		blocks = append(blocks, outlineBlock(n))
	}
	return blocks, nil
}

func outlineBlock(n *html.Node) OutlineBlock {
	b := OutlineBlock{Tag: n.Data}
	b.Background, b.Color = parseStyle(attr(n, "style"))

	var heading atom.Atom
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.H1, atom.H2, atom.H3:
			heading = c.DataAtom
			b.Heading = textOf(c)
		case atom.P:
			b.Body = textOf(c)
		case atom.Form:
			b.HasForm = true
		}
	}

	switch {
	case n.DataAtom == atom.Header:
		b.Kind = element.KindHeader
	case b.HasForm:
		b.Kind = element.KindContact
	case heading == atom.H2:
		b.Kind = element.KindHero
	default:
		b.Kind = element.KindSection
	}
	return b
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func parseStyle(style string) (background, color string) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "background-color":
			background = strings.TrimSpace(value)
		case "color":
			color = strings.TrimSpace(value)
		}
	}
	return background, color
}
