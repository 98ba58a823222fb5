package stream

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tend/internal/model"
)

// Kind colors for visual differentiation
var kindColors = map[model.Kind]lipgloss.Color{
	model.KindAlert:        lipgloss.Color("#f85149"), // red - something's wrong
	model.KindCommitment:   lipgloss.Color("#ffa657"), // orange - owed work
	model.KindMeeting:      lipgloss.Color("#58a6ff"), // blue - calendar
	model.KindRelationship: lipgloss.Color("#7ee787"), // green - people
}

// Kind glyphs shown on each card
var kindGlyphs = map[model.Kind]string{
	model.KindAlert:        "!",
	model.KindCommitment:   "»",
	model.KindMeeting:      "◷",
	model.KindRelationship: "☺",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#d2a8ff")).
			PaddingLeft(1)

	cardStyle = lipgloss.NewStyle().PaddingLeft(2)

	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))

	newBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7ee787")).
			Bold(true)

	escalatedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f85149")).
				Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#58a6ff")).
			Bold(true).
			PaddingBottom(1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9")).
			Background(lipgloss.Color("#21262d"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Bold(true)
)

func kindColor(k model.Kind) lipgloss.Color {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return lipgloss.Color("#8b949e")
}
