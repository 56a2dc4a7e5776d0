package generator

import (
	"strconv"

	"selenex/internal/models"
	"selenex/internal/selector"
)

// Selenium Keys constants for the keys the recorder captures.
var keyConstants = map[string]string{
	"Enter":  "ENTER",
	"Tab":    "TAB",
	"Escape": "ESCAPE",
}

// dispatch emits at most one block for the event's own action.
func (r *run) dispatch(index int, event models.Event) error {
	switch event.Action {
	case "click":
		return r.click(index, event)
	case "input":
		return r.input(index, event)
	case "scroll":
		return r.scroll(index, event)
	case "keydown":
		return r.keydown(index, event)
	default:
		r.emit(index, KindComment, pyComment("Unknown action: "+event.Action))
		return nil
	}
}

func (r *run) selectorData(event models.Event) templateData {
	sel := r.gen.engine.SelectFor(event.ElementContext)
	data := r.data()
	data.Sel = selectorView{By: string(sel.By), Value: sel.Value}
	return data
}

func (r *run) click(index int, event models.Event) error {
	text, err := render("click", r.selectorData(event))
	if err != nil {
		return err
	}
	r.emit(index, KindClick, text)
	return nil
}

func (r *run) input(index int, event models.Event) error {
	if kind := event.InputType(); kind == "radio" || kind == "checkbox" {
		// The paired click event already toggled the control.
		r.emit(index, KindComment, pyComment("Skipping 'input' action for "+kind+" (handled by click)"))
		return nil
	}

	data := r.selectorData(event)
	data.Value = event.Value

	name, kind := "input", KindInput
	if event.Tag() == "SELECT" {
		name, kind = "select", KindSelect
	}
	text, err := render(name, data)
	if err != nil {
		return err
	}
	r.emit(index, kind, text)
	return nil
}

func (r *run) scroll(index int, event models.Event) error {
	// (0,0) means no real scroll position was captured.
	if event.X == 0 && event.Y == 0 {
		return nil
	}
	data := r.data()
	data.X = strconv.FormatFloat(event.X, 'f', -1, 64)
	data.Y = strconv.FormatFloat(event.Y, 'f', -1, 64)
	text, err := render("scroll", data)
	if err != nil {
		return err
	}
	r.emit(index, KindScroll, text)
	return nil
}

func (r *run) keydown(index int, event models.Event) error {
	constant, ok := keyConstants[event.Key]
	if !ok {
		r.emit(index, KindComment, pyComment("Unsupported key: "+event.Key))
		return nil
	}
	data := r.data()
	data.Key = event.Key
	data.KeyConst = constant
	text, err := render("key", data)
	if err != nil {
		return err
	}
	r.emit(index, KindKey, text)
	return nil
}

// SelectorFor exposes the selector a click or input on event would use.
func (g *Generator) SelectorFor(event models.Event) selector.Selector {
	return g.engine.SelectFor(event.ElementContext)
}
