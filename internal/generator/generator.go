// Package generator turns a recorded event list into a Python/Selenium program.
package generator

import (
	"fmt"
	"strings"
	"time"

	"selenex/internal/models"
	"selenex/internal/selector"
)

const DefaultStartURL = "https://google.com"

// Options controls the fixed parts of the generated program.
type Options struct {
	DefaultStartURL   string
	ElementTimeout    time.Duration
	ClickableTimeout  time.Duration
	NavigationTimeout time.Duration
	ShutdownGrace     time.Duration
	LogFile           string
}

func DefaultOptions() Options {
	return Options{
		DefaultStartURL:   DefaultStartURL,
		ElementTimeout:    10 * time.Second,
		ClickableTimeout:  5 * time.Second,
		NavigationTimeout: 15 * time.Second,
		ShutdownGrace:     2 * time.Second,
		LogFile:           "automation.log",
	}
}

// Block kinds.
const (
	KindNavigation = "navigation"
	KindClick      = "click"
	KindSelect     = "select"
	KindInput      = "input"
	KindScroll     = "scroll"
	KindKey        = "key"
	KindComment    = "comment"
)

// Block is the statement text emitted for one event. Index is the position of
// the source event in the input list.
type Block struct {
	Index int
	Kind  string
	Text  string
}

type Program struct {
	StartURL string
	Header   string
	Blocks   []Block
	Footer   string
}

func (p *Program) String() string {
	var b strings.Builder
	b.WriteString(p.Header)
	for _, block := range p.Blocks {
		b.WriteString("\n")
		b.WriteString(block.Text)
	}
	b.WriteString("\n")
	b.WriteString(p.Footer)
	return b.String()
}

// Count returns the number of blocks of the given kind.
func (p *Program) Count(kind string) int {
	n := 0
	for _, block := range p.Blocks {
		if block.Kind == kind {
			n++
		}
	}
	return n
}

// Generator is immutable; every Generate call keeps its own cursor and block
// list, so one Generator can serve concurrent callers.
type Generator struct {
	engine *selector.Engine
	opts   Options
}

func New(engine *selector.Engine, opts Options) *Generator {
	if engine == nil {
		engine = selector.NewDefault()
	}
	defaults := DefaultOptions()
	if opts.DefaultStartURL == "" {
		opts.DefaultStartURL = defaults.DefaultStartURL
	}
	if opts.ElementTimeout <= 0 {
		opts.ElementTimeout = defaults.ElementTimeout
	}
	if opts.ClickableTimeout <= 0 {
		opts.ClickableTimeout = defaults.ClickableTimeout
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaults.NavigationTimeout
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = defaults.ShutdownGrace
	}
	if opts.LogFile == "" {
		opts.LogFile = defaults.LogFile
	}
	return &Generator{engine: engine, opts: opts}
}

// Generate walks events once, in order, and assembles the program.
func (g *Generator) Generate(events []models.Event) (*Program, error) {
	startURL := StartURL(events, g.opts.DefaultStartURL)
	r := &run{gen: g, lastURL: startURL}

	for i, event := range events {
		if err := r.checkNavigation(i, event); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if err := r.dispatch(i, event); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, event.Action, err)
		}
	}

	data := templateData{Opt: g.opts, StartURL: startURL}
	header, err := render("header", data)
	if err != nil {
		return nil, fmt.Errorf("render header: %w", err)
	}
	footer, err := render("footer", data)
	if err != nil {
		return nil, fmt.Errorf("render footer: %w", err)
	}

	return &Program{
		StartURL: startURL,
		Header:   header,
		Blocks:   r.blocks,
		Footer:   footer,
	}, nil
}

// StartURL returns the URL of the first event that carries one, or fallback.
func StartURL(events []models.Event, fallback string) string {
	for _, event := range events {
		if url := event.URL(); url != "" {
			return url
		}
	}
	return fallback
}

// run holds the mutable state of a single Generate call.
type run struct {
	gen     *Generator
	lastURL string
	blocks  []Block
}

func (r *run) emit(index int, kind, text string) {
	r.blocks = append(r.blocks, Block{Index: index, Kind: kind, Text: text})
}

func (r *run) data() templateData {
	return templateData{Opt: r.gen.opts}
}
