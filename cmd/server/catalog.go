package main

import (
	"encoding/json"
	"fmt"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/catalog"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the question catalog",
	Long:  `Loads the embedded question catalog, checks it and prints the questions each persona is asked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runCatalog(cmd, asJSON)
	},
}

func init() {
	catalogCmd.Flags().Bool("json", false, "Print the selected questions as JSON")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, asJSON bool) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON {
		selected := make(map[string]interface{}, len(cat.Personas()))
		for _, p := range cat.Personas() {
			qs := cat.QuestionsFor(p)
			if len(qs) > assessment.QuestionLimit {
				qs = qs[:assessment.QuestionLimit]
			}
			selected[string(p)] = qs
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(selected)
	}

	for _, p := range cat.Personas() {
		qs := cat.QuestionsFor(p)
		fmt.Fprintf(out, "%s (%s): %d questions\n", p, cat.Label(p), len(qs))
		for i, q := range qs {
			marker := " "
			if i < assessment.QuestionLimit {
				marker = "*"
			}
			kind := "info"
			if q.Scoring {
				kind = "scored"
			}
			fmt.Fprintf(out, "  %s %-16s %-6s %-6s %s\n", marker, q.ID, q.Type, kind, q.Text)
		}
	}
	fmt.Fprintln(out, "Catalog is valid. * marks questions asked in a session.")
	return nil
}
