package editor

import (
	"strings"
	"sync"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
)

// Mode selects how the render surface shows elements.
type Mode string

const (
	// ModeEdit renders inputs and color pickers for every field.
	ModeEdit Mode = "edit"
	// ModePreview renders elements as they will appear in the export.
	ModePreview Mode = "preview"
)

// ParseMode accepts "edit" or "preview" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEdit:
		return ModeEdit, nil
	case ModePreview:
		return ModePreview, nil
	default:
		return "", builderrors.NewValidationError(builderrors.ErrCodeInvalidMode, "mode must be edit or preview").
			WithContext("mode", s)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModePreview {
		return ModeEdit
	}
	return ModePreview
}

// Session holds the per-editor view state that lives outside the document
// store.
type Session struct {
	mu   sync.RWMutex
	mode Mode
}

// NewSession starts a session in the given mode.
func NewSession(mode Mode) *Session {
	if mode != ModePreview {
		mode = ModeEdit
	}
	return &Session{mode: mode}
}

func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches the mode and reports whether it changed.
func (s *Session) SetMode(mode Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.mode != mode
	s.mode = mode
	return changed
}
