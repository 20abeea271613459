package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atelierlabs/workbench"
	"github.com/atelierlabs/workbench/internal/presentation/tui"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")

		wb, err := workbench.New(dir)
		if err != nil {
			log.Fatalf("Error initializing workbench: %v", err)
		}
		defer wb.Close()

		md := toolsMarkdown(wb)

		// Render markdown only when stdout is an interactive terminal.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()
			render := tui.NewRenderer()
			if out, err := render(md); err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Print(md)
	},
}

func toolsMarkdown(wb *workbench.Workbench) string {
	var b strings.Builder
	b.WriteString("# Workbench Tools\n\n")

	for _, def := range wb.Registry().List() {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", def.Name, def.Description)
		if len(def.Schema) == 0 {
			continue
		}
		for _, f := range def.Schema {
			line := fmt.Sprintf("- `%s` (%s)", f.Name, f.Kind)
			if f.Required {
				line += " required"
			} else if f.Default != nil {
				line += fmt.Sprintf(" default=%v", f.Default)
			}
			if len(f.AllowedValues) > 0 {
				line += " one of: " + strings.Join(f.AllowedValues, ", ")
			}
			if f.Description != "" {
				line += " - " + f.Description
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
