package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func groundworkHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// fundForm collects the project type and funding amount of a funding event.
// amount holds the raw input; an empty string means "use the project budget".
func fundForm(projectType *string, amount *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(domain.KnownProjectTypes))
	for _, pt := range domain.KnownProjectTypes {
		options = append(options, huh.NewOption(string(pt), string(pt)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project Type").
				Options(options...).
				Value(projectType),
			huh.NewInput().
				Title("Funding Amount").
				Description("Whole currency units. Blank uses the project budget.").
				Placeholder("1500000").
				Value(amount).
				Validate(validateNonNegativeInt),
		),
	).WithTheme(groundworkHuhTheme()).WithShowHelp(false)
}

// projectForm collects the fields of a new project.
func projectForm(name, projectType, start, end, budget *string) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("(decide at funding)", "")}
	for _, pt := range domain.KnownProjectTypes {
		options = append(options, huh.NewOption(string(pt), string(pt)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Value(name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Project Type").
				Options(options...).
				Value(projectType),
			huh.NewInput().Title("Planned Start (YYYY-MM-DD)").Value(start).Validate(validateDate),
			huh.NewInput().Title("Planned End (YYYY-MM-DD)").Value(end).Validate(validateDate),
			huh.NewInput().Title("Total Budget").Placeholder("0").Value(budget).Validate(validateNonNegativeInt),
		),
	).WithTheme(groundworkHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(groundworkHuhTheme()).WithShowHelp(false)
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
