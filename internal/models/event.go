package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Event is one recorded browser interaction. Slice order is the replay order;
// Timestamp is informational only.
type Event struct {
	Action         string          `json:"action"`
	Timestamp      int64           `json:"timestamp,omitempty"`
	Fingerprint    *Fingerprint    `json:"fingerprint,omitempty"`
	ElementContext *ElementContext `json:"elementContext,omitempty"`
	Value          string          `json:"value,omitempty"`
	X              float64         `json:"x,omitempty"`
	Y              float64         `json:"y,omitempty"`
	Key            string          `json:"key,omitempty"`
}

type Fingerprint struct {
	URL             string   `json:"url,omitempty"`
	Title           string   `json:"title,omitempty"`
	VisibleTextHash string   `json:"visibleTextHash,omitempty"`
	DOMSignature    []string `json:"domSignature,omitempty"`
}

// ElementContext describes the element an event targeted at capture time.
type ElementContext struct {
	Tag         string     `json:"tag"`
	Text        string     `json:"text,omitempty"`
	Attributes  Attributes `json:"attributes,omitempty"`
	ParentChain []Parent   `json:"parentChain,omitempty"`
}

// Parent is one ancestor of the target element, nearest first.
type Parent struct {
	Tag   string `json:"tag"`
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
}

// UnmarshalJSON accepts null and non-string class values (SVG className
// objects serialise as {}).
func (p *Parent) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Tag = scalarString(raw["tag"])
	p.ID = scalarString(raw["id"])
	p.Class = scalarString(raw["class"])
	return nil
}

// Attributes maps DOM attribute names to values. Keys follow the recorder's
// naming, e.g. "dataTestId" for data-testid.
type Attributes map[string]string

func (a Attributes) Get(name string) string {
	if a == nil {
		return ""
	}
	return a[name]
}

// UnmarshalJSON drops nulls and objects and stringifies numbers and booleans.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	attrs := make(Attributes, len(raw))
	for name, value := range raw {
		if s := scalarString(value); s != "" {
			attrs[name] = s
		}
	}
	*a = attrs
	return nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// URL returns the page URL recorded with the event, or "".
func (e Event) URL() string {
	if e.Fingerprint == nil {
		return ""
	}
	return e.Fingerprint.URL
}

// Tag returns the upper-cased element tag, or "" when the event has no element.
func (e Event) Tag() string {
	if e.ElementContext == nil {
		return ""
	}
	return strings.ToUpper(e.ElementContext.Tag)
}

// InputType returns the lower-cased "type" attribute of the target element.
func (e Event) InputType() string {
	if e.ElementContext == nil {
		return ""
	}
	return strings.ToLower(e.ElementContext.Attributes.Get("type"))
}
