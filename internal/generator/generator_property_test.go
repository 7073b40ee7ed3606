//go:build property

package generator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/conneroisu/pagebuilder/internal/element"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGeneratorProperties checks output structure over random element lists.
func TestGeneratorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genElement := gen.IntRange(0, 4).FlatMap(func(v interface{}) gopter.Gen {
		kind := v.(int)
		return gen.AnyString().Map(func(s string) element.Element {
			switch kind {
			case 0:
				return element.Header{Text: s}
			case 1:
				return element.Hero{Text: s, Description: s}
			case 2:
				return element.Section{Title: s, Content: s}
			case 3:
				return element.Contact{Title: s}
			default:
				return element.Unknown{Type: "x" + s}
			}
		})
	}, reflect.TypeOf((*element.Element)(nil)).Elem())

	properties.Property("one block per renderable element, in order", prop.ForAll(
		func(elements []element.Element) bool {
			blocks, err := Outline(Generate(elements, Options{}))
			if err != nil {
				return false
			}
			var kinds []element.Kind
			for _, e := range elements {
				if Renders(e) {
					kinds = append(kinds, e.Kind())
				}
			}
			if len(blocks) != len(kinds) {
				return false
			}
			for i, b := range blocks {
				if b.Kind != kinds[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genElement),
	))

	properties.Property("user text never opens a tag", prop.ForAll(
		func(s string) bool {
			out := Generate([]element.Element{element.Header{Text: "<" + s}}, Options{})
			return !strings.Contains(out, "<h1><")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
