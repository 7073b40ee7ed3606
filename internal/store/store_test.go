package store

import (
	"testing"

	"github.com/conneroisu/pagebuilder/internal/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drafts []element.Element

func (d drafts) Drafts() []element.Element { return d }

func newTestStore() *Store {
	return New(WithIDGenerator(element.NewSequentialGenerator("el")))
}

func ids(elements []element.Element) []element.ID {
	out := make([]element.ID, len(elements))
	for i, e := range elements {
		out[i] = e.ElementID()
	}
	return out
}

func TestAdd(t *testing.T) {
	s := newTestStore()

	a := s.Add(element.Header{Text: "A"})
	b := s.Add(element.Section{Title: "B"})
	c := s.Add(element.Contact{ID: "ignored", Title: "C"})

	assert.Equal(t, element.ID("el-1"), a.ElementID())
	assert.Equal(t, element.ID("el-3"), c.ElementID(), "draft id is replaced")
	assert.Equal(t, []element.ID{"el-1", "el-2", "el-3"}, ids(s.Elements()))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, b, s.Elements()[1])
}

func TestAddDefaultGeneratorDistinct(t *testing.T) {
	s := New()
	seen := make(map[element.ID]bool)
	for i := 0; i < 200; i++ {
		e := s.Add(element.Hero{})
		require.False(t, seen[e.ElementID()])
		seen[e.ElementID()] = true
	}
	assert.Equal(t, 200, s.Len())
}

func TestNilDraftsIgnored(t *testing.T) {
	s := newTestStore()
	events := s.Watch()
	defer s.Unwatch(events)

	assert.Nil(t, s.Add(nil))
	assert.Zero(t, s.Len())
	assert.Empty(t, events, "no event for an ignored draft")

	loaded := s.Load(drafts{element.Header{Text: "A"}, nil, element.Hero{Text: "B"}})
	assert.Equal(t, []element.ID{"el-1", "el-2"}, ids(loaded))
}

func TestUpdate(t *testing.T) {
	s := newTestStore()
	s.Add(element.Header{Text: "Top"})
	hero := s.Add(element.Hero{Text: "Old", Description: "Keep"})
	s.Add(element.Section{Title: "Bottom"})
	before := s.Elements()

	t.Run("non-matching id is a no-op", func(t *testing.T) {
		_, ok := s.Update("missing", element.Patch{Text: element.String("x")})
		assert.False(t, ok)
		assert.Equal(t, before, s.Elements())
	})

	t.Run("matching id changes only given fields", func(t *testing.T) {
		got, ok := s.Update(hero.ElementID(), element.Patch{Text: element.String("New")})
		require.True(t, ok)

		h := got.(element.Hero)
		assert.Equal(t, "New", h.Text)
		assert.Equal(t, "Keep", h.Description)
		assert.Equal(t, hero.ElementID(), h.ID)
		assert.Equal(t, element.KindHero, got.Kind())

		after := s.Elements()
		assert.Equal(t, ids(before), ids(after))
		assert.Equal(t, before[0], after[0])
		assert.Equal(t, before[2], after[2])
	})

	t.Run("snapshot is not mutated", func(t *testing.T) {
		assert.Equal(t, "Old", before[1].(element.Hero).Text)
	})
}

func TestDelete(t *testing.T) {
	s := newTestStore()
	a := s.Add(element.Header{Text: "A"})
	b := s.Add(element.Hero{Text: "B"})
	c := s.Add(element.Section{Title: "C"})

	assert.False(t, s.Delete("missing"))
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Delete(b.ElementID()))
	assert.Equal(t, []element.ID{a.ElementID(), c.ElementID()}, ids(s.Elements()))

	assert.False(t, s.Delete(b.ElementID()), "second delete is a no-op")
	assert.Equal(t, 2, s.Len())
}

func TestDeleteClearsSelection(t *testing.T) {
	s := newTestStore()
	a := s.Add(element.Header{})
	b := s.Add(element.Header{})

	s.SetCurrent(a.ElementID())
	s.Delete(b.ElementID())
	assert.Equal(t, a.ElementID(), s.Current())

	s.Delete(a.ElementID())
	assert.Equal(t, element.ID(""), s.Current())
}

func TestReset(t *testing.T) {
	s := newTestStore()
	assert.Empty(t, s.Elements())

	e := s.Add(element.Header{})
	s.Add(element.Contact{})
	s.SetCurrent(e.ElementID())

	s.Reset()
	assert.Empty(t, s.Elements())
	assert.Equal(t, element.ID(""), s.Current())

	s.Reset()
	assert.Empty(t, s.Elements())
}

func TestLoad(t *testing.T) {
	s := newTestStore()
	s.Add(element.Contact{Title: "stale"})

	tmpl := drafts{
		element.Header{ID: "catalog-id", Text: "My Portfolio"},
		element.Hero{Text: "Welcome"},
	}

	first := s.Load(tmpl)
	require.Len(t, first, 2)
	assert.Equal(t, "My Portfolio", first[0].(element.Header).Text)
	assert.NotEqual(t, element.ID("catalog-id"), first[0].ElementID())

	second := s.Load(tmpl)
	assert.Len(t, s.Elements(), 2)
	for _, a := range first {
		for _, b := range second {
			assert.NotEqual(t, a.ElementID(), b.ElementID(), "reload must assign fresh ids")
		}
	}
}

func TestSelection(t *testing.T) {
	s := newTestStore()
	e := s.Add(element.Header{})

	s.SetCurrent(e.ElementID())
	assert.Equal(t, e.ElementID(), s.Current())

	s.SetCurrent("missing")
	assert.Equal(t, element.ID(""), s.Current())
}

func TestGet(t *testing.T) {
	s := newTestStore()
	e := s.Add(element.Section{Title: "T"})

	got, ok := s.Get(e.ElementID())
	require.True(t, ok)
	assert.Equal(t, e, got)

	_, ok = s.Get("nope")
	assert.False(t, ok)
}

func TestWatch(t *testing.T) {
	s := newTestStore()
	events := s.Watch()

	e := s.Add(element.Header{})
	s.Update(e.ElementID(), element.Patch{Text: element.String("x")})
	s.Update("missing", element.Patch{})
	s.SetCurrent(e.ElementID())
	s.Delete(e.ElementID())
	s.Load(drafts{element.Hero{}})
	s.Reset()

	want := []EventType{
		EventTypeAdded,
		EventTypeUpdated,
		EventTypeSelected,
		EventTypeRemoved,
		EventTypeLoaded,
		EventTypeReset,
	}
	for _, typ := range want {
		select {
		case ev := <-events:
			assert.Equal(t, typ, ev.Type)
			assert.False(t, ev.Timestamp.IsZero())
		default:
			t.Fatalf("expected %s event", typ)
		}
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s", ev.Type)
	default:
	}

	s.Unwatch(events)
	_, open := <-events
	assert.False(t, open)
}

func TestWatchFullBufferDoesNotBlock(t *testing.T) {
	s := newTestStore()
	_ = s.Watch()

	for i := 0; i < 250; i++ {
		s.Add(element.Header{})
	}
	assert.Equal(t, 250, s.Len())
}
