package consult

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/diagz/internal/ui/layout"
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Finish key.Binding
	Back   key.Binding

	// Confirmation dialog.
	Toggle  key.Binding
	Accept  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Yes:    key.NewBinding(key.WithKeys("left", "y"), key.WithHelp("←/y", "Yes")),
	No:     key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "No")),
	Finish: key.NewBinding(key.WithKeys("end", "f"), key.WithHelp("End/f", "Finish")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),

	Toggle:  key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←→", "Choose")),
	Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select")),
	Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "End")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/Esc", "Keep going")),
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
