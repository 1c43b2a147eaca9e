package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sleuth/internal/markup"
	"sleuth/internal/namematch"
)

type matchView struct {
	Query       string  `json:"query"`
	Candidate   string  `json:"candidate"`
	Matched     bool    `json:"matched"`
	MatchedName string  `json:"matched_name,omitempty"`
	Confidence  float64 `json:"confidence"`
}

func newMatchCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "match <query> <candidate>",
		Short:       "Decide offline whether a candidate name matches a query",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query, candidate := args[0], args[1]

			var fields markup.FieldMap
			fields.Set(markup.FieldCompanyName, candidate)
			decision := namematch.Decide(query, fields)

			if jsonOutput {
				return writeJSON(cmd, matchView{
					Query:       query,
					Candidate:   candidate,
					Matched:     decision.Matched,
					MatchedName: decision.MatchedName,
					Confidence:  decision.Confidence,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Query:      %s\n", query)
			fmt.Fprintf(out, "Candidate:  %s\n", candidate)
			fmt.Fprintf(out, "Normalized: %q vs %q\n", namematch.Normalize(query), namematch.Normalize(candidate))
			fmt.Fprintf(out, "Matched:    %s\n", yesNo(decision.Matched))
			if decision.Confidence > 0 {
				fmt.Fprintf(out, "Confidence: %.0f%%\n", decision.Confidence*100)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the decision as JSON")
	return cmd
}
