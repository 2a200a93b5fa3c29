// Package forms tracks edit sessions of data-entry forms: field values,
// fields derived from other fields and the manual overrides that stop a
// derivation.
package forms

import "strings"

// DerivationRule computes Target from its Sources. Derive reads the
// current session values through get.
type DerivationRule struct {
	Target  string
	Sources []string
	Derive  func(get func(field string) string) string
}

// Session holds the values of one form while it is being edited.
// A target edited directly is dirty for the rest of the session and is
// never recomputed again.
type Session struct {
	values   map[string]string
	dirty    map[string]bool
	rules    map[string]DerivationRule
	bySource map[string][]string
}

// NewSession creates an empty session governed by the rules
func NewSession(rules ...DerivationRule) *Session {
	s := &Session{
		values:   make(map[string]string),
		dirty:    make(map[string]bool),
		rules:    make(map[string]DerivationRule, len(rules)),
		bySource: make(map[string][]string),
	}
	for _, r := range rules {
		s.rules[r.Target] = r
		for _, src := range r.Sources {
			s.bySource[src] = append(s.bySource[src], r.Target)
		}
	}
	return s
}

// Get returns the current value of a field
func (s *Session) Get(field string) string {
	return s.values[field]
}

// IsDirty reports whether a derived field carries a manual value
func (s *Session) IsDirty(field string) bool {
	return s.dirty[field]
}

// Values returns a copy of all field values
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set records a user edit. Editing a derived field marks it dirty.
// Dependents of the field that are still clean are recomputed,
// transitively.
func (s *Session) Set(field, value string) {
	if _, derived := s.rules[field]; derived {
		s.dirty[field] = true
	}
	s.values[field] = value
	s.propagate(field)
}

// Load fills the session from a stored record. A derived field whose
// stored value differs from what its rule yields is treated as a manual
// override; an empty stored value stays clean and is derived.
func (s *Session) Load(values map[string]string) {
	s.values = make(map[string]string, len(values))
	s.dirty = make(map[string]bool)
	for k, v := range values {
		s.values[k] = v
	}
	for target, rule := range s.rules {
		stored := strings.TrimSpace(s.values[target])
		if stored != "" && stored != rule.Derive(s.Get) {
			s.dirty[target] = true
		}
	}
	for target := range s.rules {
		if !s.dirty[target] && strings.TrimSpace(s.values[target]) == "" {
			s.values[target] = s.rules[target].Derive(s.Get)
			s.propagate(target)
		}
	}
}

// Reset clears the manual override of a derived field and recomputes it
func (s *Session) Reset(field string) {
	rule, ok := s.rules[field]
	if !ok {
		return
	}
	delete(s.dirty, field)
	s.values[field] = rule.Derive(s.Get)
	s.propagate(field)
}

func (s *Session) propagate(field string) {
	queue := []string{field}
	seen := map[string]bool{field: true}
	for len(queue) > 0 {
		src := queue[0]
		queue = queue[1:]
		for _, target := range s.bySource[src] {
			if s.dirty[target] || seen[target] {
				continue
			}
			seen[target] = true
			s.values[target] = s.rules[target].Derive(s.Get)
			queue = append(queue, target)
		}
	}
}
