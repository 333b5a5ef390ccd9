package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RosterEntry is one seeded participant.
type RosterEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Contact string `yaml:"email"`
}

type rosterFile struct {
	Students []RosterEntry `yaml:"students"`
}

// DefaultRoster returns the built-in roster of eight students.
func DefaultRoster() []RosterEntry {
	return []RosterEntry{
		{ID: "STU001", Name: "John Doe", Contact: "john@college.edu"},
		{ID: "STU002", Name: "Jane Smith", Contact: "jane@college.edu"},
		{ID: "STU003", Name: "Mike Johnson", Contact: "mike@college.edu"},
		{ID: "STU004", Name: "Sarah Wilson", Contact: "sarah@college.edu"},
		{ID: "STU005", Name: "Alex Brown", Contact: "alex@college.edu"},
		{ID: "STU006", Name: "Emily Davis", Contact: "emily@college.edu"},
		{ID: "STU007", Name: "David Miller", Contact: "david@college.edu"},
		{ID: "STU008", Name: "Lisa Taylor", Contact: "lisa@college.edu"},
	}
}

// LoadRoster reads a YAML roster of the form:
//
//	students:
//	  - id: STU001
//	    name: John Doe
//	    email: john@college.edu
func LoadRoster(path string) ([]RosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates a YAML roster.
func ParseRoster(data []byte) ([]RosterEntry, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if err := validateRoster(f.Students); err != nil {
		return nil, err
	}
	return f.Students, nil
}

func validateRoster(entries []RosterEntry) error {
	if len(entries) == 0 {
		return errors.New("roster is empty")
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("roster entry %d: missing id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("roster entry %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
