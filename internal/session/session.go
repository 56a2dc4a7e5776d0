// Package session reads and writes recorded event files.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"selenex/internal/models"
)

// DefaultFile is the event file read when no path is given.
const DefaultFile = "session.json"

// ErrMalformedSession marks input that is not a JSON array of events.
var ErrMalformedSession = errors.New("malformed session")

// Load reads the event list stored at path.
func Load(path string) ([]models.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	events, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Parse decodes a JSON array of events. Anything else, including a bare
// null, is ErrMalformedSession.
func Parse(r io.Reader) ([]models.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of events", ErrMalformedSession)
	}

	var events []models.Event
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return events, nil
}

// Save writes events as indented JSON.
func Save(path string, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
