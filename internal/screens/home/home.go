package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screen"
	"github.com/abhisek/diagz/internal/screens/consult"
	"github.com/abhisek/diagz/internal/screens/history"
	"github.com/abhisek/diagz/internal/screens/results"
	"github.com/abhisek/diagz/internal/screens/symptoms"
	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/store"
	"github.com/abhisek/diagz/internal/ui/components"
	"github.com/abhisek/diagz/internal/ui/theme"
)

// Deps holds what the home menu needs to open the other screens.
type Deps struct {
	Model   *model.Model
	Dataset string

	// Question resolves a symptom to its display text.
	Question func(string) string

	// Observer is attached to every consultation. May be nil.
	Observer session.Observer

	// EventRepo backs the history screen. Nil disables it.
	EventRepo store.EventRepo
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "Start consultation", Action: push(func() screen.Screen {
			return consult.New(deps.Model, deps.Question, session.Config{Observer: deps.Observer})
		})},
		{Label: "Symptoms", Action: push(func() screen.Screen {
			return symptoms.New(deps.Model, deps.Question)
		})},
		{Label: "History", Disabled: deps.EventRepo == nil, Action: push(func() screen.Screen {
			return history.New(deps.EventRepo)
		})},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := height < 24

	var sections []string
	sections = append(sections, renderBanner(cw, compact))
	sections = append(sections, h.renderDataset(cw))
	sections = append(sections, components.Panel(strings.TrimRight(h.menu.View(), "\n"), cw))
	if !compact {
		sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render(results.Disclaimer))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (h *HomeScreen) renderDataset(cw int) string {
	m := h.deps.Model
	stats := fmt.Sprintf("%s  ·  %d symptoms  ·  %d conditions",
		h.deps.Dataset, m.NumSymptoms(), m.NumConditions())
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.TextDim).Render(stats)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
