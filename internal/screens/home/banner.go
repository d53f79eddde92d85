package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/ui/theme"
)

const bannerFull = `     ▌▗
  ▞▀▌▄ ▝▀▖▞▀▌▀▜▘
  ▌ ▌▐ ▞▀▌▚▄▌▗▘
  ▝▀▘▀▘▝▀▘▗▄▘▀▀▘`

const bannerCompact = "d · i · a · g · z"

const tagline = "adaptive symptom checker"

func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(
		lipgloss.JoinVertical(lipgloss.Center, style.Render(art), theme.Subtitle.Render(tagline)))
}
