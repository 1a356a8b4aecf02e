package main

import (
	"strings"

	"github.com/Inventure71/EvolveProject/tool"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the agent can call",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, remote, err := buildRegistry(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer remote.Close()

		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), formatTools(registry))
		return err
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

// formatTools renders the registry as a table of name, source, parameters
// and description.
func formatTools(registry *tool.Registry) string {
	schemas := registry.Schemas()
	if len(schemas) == 0 {
		return "No tools found"
	}

	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	headerStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center).Padding(0, 1)
	oddRowStyle := lipgloss.NewStyle().Foreground(gray).Padding(0, 1)
	evenRowStyle := lipgloss.NewStyle().Foreground(lightGray).Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers("Name", "Source", "Parameters", "Description")

	for _, s := range schemas {
		t.Row(
			s.Name,
			registry.SourceOf(s.Name),
			formatParams(s),
			truncateString(firstLine(s.Description), 60),
		)
	}
	return t.Render()
}

// formatParams lists parameters, marking optional ones with a question mark.
func formatParams(s tool.Schema) string {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	parts := make([]string, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		name := p.Name
		if !required[name] {
			name += "?"
		}
		parts = append(parts, name+": "+string(p.Type))
	}
	return strings.Join(parts, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
