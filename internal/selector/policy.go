package selector

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Policy holds the tunable parts of selector derivation.
type Policy struct {
	// StableMarkers mark an id as author-assigned regardless of its shape.
	StableMarkers []string `yaml:"stable_markers"`
	// DynamicIDLength is the length an id containing a digit must exceed
	// to be treated as framework generated.
	DynamicIDLength int `yaml:"dynamic_id_length"`
	// ExcludedClassPrefixes drops utility and state classes from class selectors.
	ExcludedClassPrefixes []string `yaml:"excluded_class_prefixes"`
	// MaxTextLength bounds the visible text used for text selectors (exclusive).
	MaxTextLength int `yaml:"max_text_length"`
}

func DefaultPolicy() Policy {
	return Policy{
		StableMarkers:         []string{"vid-", "prj-"},
		DynamicIDLength:       10,
		ExcludedClassPrefixes: []string{"wds-", "hover:"},
		MaxTextLength:         50,
	}
}

// LoadPolicy reads a YAML policy file. Fields left out of the file keep their
// defaults; an empty path or a missing file yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if strings.TrimSpace(path) == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return policy, nil
		}
		return policy, fmt.Errorf("read selector policy: %w", err)
	}

	var parsed Policy
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return policy, fmt.Errorf("parse selector policy %s: %w", path, err)
	}
	return policy.merge(parsed), nil
}

func (p Policy) merge(override Policy) Policy {
	if override.StableMarkers != nil {
		p.StableMarkers = override.StableMarkers
	}
	if override.DynamicIDLength > 0 {
		p.DynamicIDLength = override.DynamicIDLength
	}
	if override.ExcludedClassPrefixes != nil {
		p.ExcludedClassPrefixes = override.ExcludedClassPrefixes
	}
	if override.MaxTextLength > 0 {
		p.MaxTextLength = override.MaxTextLength
	}
	return p
}

// IsDynamicID reports whether id looks framework generated: it contains a
// digit and is longer than DynamicIDLength, unless a stable marker appears in it.
func (p Policy) IsDynamicID(id string) bool {
	if id == "" {
		return false
	}
	for _, marker := range p.StableMarkers {
		if marker != "" && strings.Contains(id, marker) {
			return false
		}
	}
	return strings.IndexFunc(id, unicode.IsDigit) >= 0 && utf8.RuneCountInString(id) > p.DynamicIDLength
}

// IsDynamicID classifies id with the default policy.
func IsDynamicID(id string) bool {
	return DefaultPolicy().IsDynamicID(id)
}

func (p Policy) meaningfulClasses(class string) []string {
	var kept []string
	for _, name := range strings.Fields(class) {
		if !p.excludedClass(name) {
			kept = append(kept, name)
		}
	}
	return kept
}

func (p Policy) excludedClass(name string) bool {
	for _, prefix := range p.ExcludedClassPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
