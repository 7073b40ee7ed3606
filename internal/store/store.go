// Package store holds the editable document: an ordered list of page
// elements plus the currently selected element.
//
// The Store is an explicit value owned by whoever runs the editor session;
// there is no package-level instance. All operations are total: an ID that
// matches nothing makes Update, Delete and SetCurrent no-ops. Subscribers
// receive change events through buffered channels obtained from Watch.
package store

import (
	"sync"
	"time"

	"github.com/conneroisu/pagebuilder/internal/element"
)

// EventType represents the kind of document change.
type EventType string

const (
	EventTypeAdded    EventType = "added"
	EventTypeUpdated  EventType = "updated"
	EventTypeRemoved  EventType = "removed"
	EventTypeReset    EventType = "reset"
	EventTypeLoaded   EventType = "loaded"
	EventTypeSelected EventType = "selected"
)

// Event describes one change. Element is nil for reset and loaded events,
// and for a selected event that cleared the selection.
type Event struct {
	Type      EventType
	Element   element.Element
	Count     int
	Timestamp time.Time
}

// Template is the input of Load: an ordered list of drafts whose IDs are
// ignored.
type Template interface {
	Drafts() []element.Element
}

// Store manages the element list.
type Store struct {
	elements []element.Element
	current  element.ID
	ids      element.IDGenerator
	mutex    sync.RWMutex
	watchers []chan Event
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g element.IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		elements: make([]element.Element, 0),
		ids:      element.UUIDGenerator{},
		watchers: make([]chan Event, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends draft with a fresh ID and returns the stored element. Any ID
// already on the draft is replaced. A nil draft is ignored and nil returned.
func (s *Store) Add(draft element.Element) element.Element {
	if draft == nil {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	e := element.WithID(draft, s.ids.NewID())
	s.elements = append(s.elements, e)

	s.notify(Event{Type: EventTypeAdded, Element: e, Count: len(s.elements)})
	return e
}

// Update merges patch into the element with the given ID. It reports whether
// an element matched; no match leaves the document untouched.
func (s *Store) Update(id element.ID, patch element.Patch) (element.Element, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}

	e := element.Apply(s.elements[i], patch)
	s.elements[i] = e

	s.notify(Event{Type: EventTypeUpdated, Element: e, Count: len(s.elements)})
	return e, true
}

// Delete removes the element with the given ID, keeping the order of the
// rest. Deleting the selected element clears the selection.
func (s *Store) Delete(id element.ID) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	removed := s.elements[i]
	s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
	if s.current == id {
		s.current = ""
	}

	s.notify(Event{Type: EventTypeRemoved, Element: removed, Count: len(s.elements)})
	return true
}

// Reset clears the list and the selection.
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.elements = make([]element.Element, 0)
	s.current = ""

	s.notify(Event{Type: EventTypeReset})
}

// Load replaces the document with the template's drafts in order. Every
// element receives a fresh ID, so loading the same template twice never
// produces duplicate IDs. Subscribers see a single loaded event.
func (s *Store) Load(t Template) []element.Element {
	drafts := t.Drafts()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.elements = make([]element.Element, 0, len(drafts))
	s.current = ""
	for _, d := range drafts {
		if d == nil {
			continue
		}
		s.elements = append(s.elements, element.WithID(d, s.ids.NewID()))
	}

	s.notify(Event{Type: EventTypeLoaded, Count: len(s.elements)})
	return s.snapshot()
}

// SetCurrent records the selected element. An ID that matches nothing, or
// the empty ID, clears the selection.
func (s *Store) SetCurrent(id element.ID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var selected element.Element
	if i := s.indexOf(id); i >= 0 {
		selected = s.elements[i]
		s.current = id
	} else {
		s.current = ""
	}

	s.notify(Event{Type: EventTypeSelected, Element: selected, Count: len(s.elements)})
}

// Current returns the selected ID, or "" when nothing is selected.
func (s *Store) Current() element.ID {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.current
}

// Get returns the element with the given ID.
func (s *Store) Get(id element.ID) (element.Element, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.elements[i], true
}

// Elements returns a copy of the list in display order.
func (s *Store) Elements() []element.Element {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.snapshot()
}

// Len returns the number of elements.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.elements)
}

// Watch returns a channel that receives document events. Events are dropped
// for a watcher whose buffer is full.
func (s *Store) Watch() <-chan Event {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ch := make(chan Event, 100)
	s.watchers = append(s.watchers, ch)
	return ch
}

// Unwatch removes a watcher channel and closes it.
func (s *Store) Unwatch(ch <-chan Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, watcher := range s.watchers {
		if watcher == ch {
			close(watcher)
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			break
		}
	}
}

func (s *Store) indexOf(id element.ID) int {
	if id == "" {
		return -1
	}
	for i, e := range s.elements {
		if e.ElementID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []element.Element {
	out := make([]element.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// notify must be called with the write lock held.
func (s *Store) notify(event Event) {
	event.Timestamp = time.Now()
	for _, watcher := range s.watchers {
		select {
		case watcher <- event:
		default:
		}
	}
}
