package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/missioncontrol"
	"github.com/imamik/missioncontrol/internal/provisioning/destroy"
)

// Output formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// styled reports whether output goes to a terminal and may be colored.
var styled = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func render(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}

// writeOutput writes v in format. Text output comes from text.
func writeOutput(w io.Writer, format string, v any, text func() string) error {
	switch format {
	case "", OutputText:
		_, err := io.WriteString(w, text())
		return err
	case OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q: want %s, %s or %s", format, OutputText, OutputYAML, OutputJSON)
	}
}

// validateOutput fails early for unknown formats.
func validateOutput(format string) error {
	switch format {
	case "", OutputText, OutputYAML, OutputJSON:
		return nil
	}
	return fmt.Errorf("unsupported output format %q: want %s, %s or %s", format, OutputText, OutputYAML, OutputJSON)
}

// renderBoom produces the launch summary.
func renderBoom(boom *missioncontrol.Boom) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(render(titleStyle, "  Launched "+boom.Project.Name))
	b.WriteString("\n")
	b.WriteString(render(dimStyle, "  "+strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s\n", render(labelStyle, fmt.Sprintf("%-12s", "Repository")), boom.Repository.FullName)
	if boom.Repository.HTMLURL != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "", render(dimStyle, boom.Repository.HTMLURL))
	}
	fmt.Fprintf(&b, "  %s %s\n", render(labelStyle, fmt.Sprintf("%-12s", "Project")), boom.Project.Name)
	if boom.Project.ConsoleURL != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "", render(dimStyle, boom.Project.ConsoleURL))
	}

	if len(boom.Project.Resources) > 0 {
		b.WriteString("\n")
		b.WriteString(render(labelStyle, "  Resources"))
		b.WriteString("\n")
		for _, r := range boom.Project.Resources {
			fmt.Fprintf(&b, "    %-18s %s\n", r.Kind, r.Name)
		}
	}
	b.WriteString("\n")

	return b.String()
}

// renderBoosters produces the catalog listing.
func renderBoosters(boosters []booster.Booster) string {
	var b strings.Builder

	if len(boosters) == 0 {
		b.WriteString(render(dimStyle, "No boosters in the catalog."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(render(dimStyle, fmt.Sprintf("%-28s %-16s %-16s %s", "ID", "RUNTIME", "MISSION", "NAME")))
	b.WriteString("\n")
	for _, bst := range boosters {
		fmt.Fprintf(&b, "%-28s %-16s %-16s %s\n", bst.ID, bst.Runtime.ID, bst.Mission, bst.DisplayName())
	}
	return b.String()
}

// renderReport produces the cleanup summary.
func renderReport(report destroy.Report) string {
	var b strings.Builder

	for _, t := range report.Deleted {
		fmt.Fprintf(&b, "%s %s\n", render(okStyle, "deleted"), t)
	}
	for _, t := range report.Missing {
		fmt.Fprintf(&b, "%s %s\n", render(dimStyle, "missing"), t)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(&b, "%s  %s: %v\n", render(failStyle, "failed"), f.Target, f.Err)
	}
	if b.Len() == 0 {
		b.WriteString(render(dimStyle, "Nothing to clean up."))
		b.WriteString("\n")
	}
	return b.String()
}
