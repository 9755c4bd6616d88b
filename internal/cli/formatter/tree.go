package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a task tree. Guides holds, for each ancestor
// level above the item, whether a vertical connector continues there.
type TreeItem struct {
	Title    string
	Guides   []bool
	IsLast   bool
	Status   domain.TaskStatus
	Critical bool
	Detail   string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree with box-drawing
// connectors and right-aligned detail badges.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix strings.Builder
		if len(item.Guides) > 0 {
			for _, cont := range item.Guides[1:] {
				if cont {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeBlank)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		marker := ""
		switch item.Status {
		case domain.TaskCompleted:
			marker = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.TaskInProgress:
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.TaskDelayed:
			marker = StyleRed.Render("▲ ")
		case domain.TaskCancelled:
			marker = StyleDim.Render("✖ ")
			title = Dim(title)
		}
		if item.Critical {
			title += " " + CriticalMarker(true)
		}

		contents[i] = prefix.String() + marker + title
		widest = max(widest, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
