package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Store holds the full static catalog, loaded once at startup. All reads
// after Load are lock-free; nothing here mutates.
type Store struct {
	masterclasses []Masterclass
	workshops     []Workshop
	categories    []string

	byID  map[int]*Masterclass
	ranks map[string]int
}

// Load reads categories.json, masterclasses.json and workshops.json from dir
// and validates every record. Any violation is returned as an error so the
// caller can fail startup loudly instead of serving a half-broken catalog.
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := readJSON(filepath.Join(dir, "categories.json"), &s.categories); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "masterclasses.json"), &s.masterclasses); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "workshops.json"), &s.workshops); err != nil {
		return nil, err
	}

	validate := validator.New()
	s.byID = make(map[int]*Masterclass, len(s.masterclasses))
	for i := range s.masterclasses {
		m := &s.masterclasses[i]
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("masterclass %d: %w", m.ID, err)
		}
		if _, dup := s.byID[m.ID]; dup {
			return nil, fmt.Errorf("masterclass %d: duplicate id", m.ID)
		}
		for _, q := range m.Assessment.Questions {
			if q.Answer >= len(q.Options) {
				return nil, fmt.Errorf("masterclass %d: question %d: answer index %d out of range",
					m.ID, q.ID, q.Answer)
			}
		}
		s.byID[m.ID] = m
		assignLessonKeys(m)
	}
	for i := range s.workshops {
		if err := validate.Struct(&s.workshops[i]); err != nil {
			return nil, fmt.Errorf("workshop %d: %w", s.workshops[i].ID, err)
		}
	}

	// Category rank is precomputed once; unknown categories keep the
	// indexOf-not-found rank of -1 and therefore sort before all known ones.
	s.ranks = make(map[string]int, len(s.categories))
	for i, c := range s.categories {
		s.ranks[c] = i
	}

	return s, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("catalog: %s: %w", filepath.Base(path), err)
	}
	return nil
}

func assignLessonKeys(m *Masterclass) {
	for si := range m.Curriculum {
		for li := range m.Curriculum[si].Lessons {
			m.Curriculum[si].Lessons[li].Key = fmt.Sprintf("%d.%d", si+1, li+1)
		}
	}
}

// Masterclasses returns the catalog sorted by category rank.
func (s *Store) Masterclasses() []Masterclass {
	return SortByCategory(s.masterclasses, s.ranks)
}

func (s *Store) Workshops() []Workshop {
	return s.workshops
}

func (s *Store) Categories() []string {
	return s.categories
}

// ByID returns the masterclass with the given id, or nil if the catalog has
// no such course.
func (s *Store) ByID(id int) *Masterclass {
	return s.byID[id]
}

// CategoryRank exposes the precomputed rank map for the filter engine.
func (s *Store) CategoryRank() map[string]int {
	return s.ranks
}
