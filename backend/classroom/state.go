// Package classroom tracks per-(user, course) navigation state for the
// classroom view: which lesson is focused and which curriculum sections are
// expanded. The state is session-scoped and kept in memory; losing it only
// resets the view to its defaults.
package classroom

import (
	"fmt"
	"sync"

	"masterhub/backend/catalog"
)

// NavState is the navigation state of one (user, course) pair.
type NavState struct {
	// CurrentLessonKey is empty when the curriculum has no lessons.
	CurrentLessonKey string          `json:"current_lesson"`
	OpenSections     map[string]bool `json:"open_sections"`
}

// NewNavState builds the default state: first lesson of the first section
// selected, all sections closed except the first.
func NewNavState(course *catalog.Masterclass) *NavState {
	state := &NavState{
		OpenSections: make(map[string]bool, len(course.Curriculum)),
	}
	for _, section := range course.Curriculum {
		state.OpenSections[section.Section] = false
	}
	if len(course.Curriculum) > 0 {
		state.OpenSections[course.Curriculum[0].Section] = true
	}
	if first := course.FirstLesson(); first != nil {
		state.CurrentLessonKey = first.Key
	}
	return state
}

// ToggleSection flips one section's open flag. The current lesson is not
// affected. Unknown titles are an error so typos don't grow the map.
func (s *NavState) ToggleSection(title string) error {
	open, ok := s.OpenSections[title]
	if !ok {
		return fmt.Errorf("classroom: unknown section %q", title)
	}
	s.OpenSections[title] = !open
	return nil
}

// SelectLesson focuses a lesson by key. Open sections are left as they are.
func (s *NavState) SelectLesson(course *catalog.Masterclass, key string) error {
	if course.FindLesson(key) == nil {
		return fmt.Errorf("classroom: unknown lesson %q", key)
	}
	s.CurrentLessonKey = key
	return nil
}

// StateStore holds navigation state keyed by (user, course). All access to
// one pair's state is serialized through the store lock, which satisfies the
// per-key update ordering the enrollment data needs if concurrent sessions
// show up.
type StateStore struct {
	mu     sync.Mutex
	states map[stateKey]*NavState
}

type stateKey struct {
	userID   uint
	courseID int
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[stateKey]*NavState)}
}

// Get returns a snapshot of the pair's state, creating the default on first
// access. Snapshots are safe to marshal while concurrent Updates mutate the
// stored state.
func (ss *StateStore) Get(userID uint, course *catalog.Masterclass) NavState {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.state(userID, course).snapshot()
}

// Update runs fn against the pair's live state under the store lock.
func (ss *StateStore) Update(userID uint, course *catalog.Masterclass, fn func(*NavState) error) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return fn(ss.state(userID, course))
}

// state must be called with the lock held.
func (ss *StateStore) state(userID uint, course *catalog.Masterclass) *NavState {
	key := stateKey{userID, course.ID}
	state, ok := ss.states[key]
	if !ok {
		state = NewNavState(course)
		ss.states[key] = state
	}
	return state
}

func (s *NavState) snapshot() NavState {
	open := make(map[string]bool, len(s.OpenSections))
	for title, isOpen := range s.OpenSections {
		open[title] = isOpen
	}
	return NavState{CurrentLessonKey: s.CurrentLessonKey, OpenSections: open}
}
