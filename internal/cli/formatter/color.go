package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRedBold    = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// StatusStyle returns the style used for a task status.
func StatusStyle(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.TaskCompleted:
		return StyleGreen
	case domain.TaskInProgress:
		return StyleYellow
	case domain.TaskDelayed:
		return StyleRed
	case domain.TaskCancelled:
		return StyleDim
	default:
		return StyleBlue
	}
}

// StatusPill returns a colored indicator such as "● In Progress".
func StatusPill(s domain.TaskStatus) string {
	switch s {
	case domain.TaskNotStarted:
		return StatusStyle(s).Render("○ Not Started")
	case domain.TaskInProgress:
		return StatusStyle(s).Render("● In Progress")
	case domain.TaskCompleted:
		return StatusStyle(s).Render("✔ Completed")
	case domain.TaskDelayed:
		return StatusStyle(s).Render("▲ Delayed")
	case domain.TaskCancelled:
		return StatusStyle(s).Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// PriorityBadge colors a priority by urgency.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRedBold.Render("critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("high")
	case domain.PriorityLow:
		return StyleDim.Render("low")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleFg.Render(string(p))
	}
}

// CriticalMarker marks zero-float tasks.
func CriticalMarker(critical bool) string {
	if critical {
		return StyleRedBold.Render("◆")
	}
	return " "
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
