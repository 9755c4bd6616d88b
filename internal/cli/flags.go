package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

func addProjectFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "project", "p", "", "project ID or unique prefix")
}

// requireProject resolves the --project flag, which every task-scoped
// listing needs.
func requireProject(cmd *cobra.Command, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: --project is required", domain.ErrValidation)
	}
	return resolveProjectID(cmd.Context(), app, input)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrValidation, s)
	}
	return t.UTC(), nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// changed reports whether any of the named flags was set on the command line.
func changed(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}
