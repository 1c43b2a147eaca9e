package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sleuth/internal/config"
	"sleuth/internal/geojson"
	"sleuth/internal/report"
)

type classifyView struct {
	Private   []string `json:"private"`
	Corporate []string `json:"corporate"`
}

func newClassifyCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "classify <parcels.geojson>",
		Short:       "Classify parcel owner names as private or corporate",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			owners, err := loadClassifyOwners(cmd, args[0])
			if err != nil {
				return err
			}
			private, corporate := geojson.SplitPrivate(owners)

			if jsonOutput {
				return writeJSON(cmd, classifyView{Private: private, Corporate: corporate})
			}

			out := cmd.OutOrStdout()
			if len(owners) == 0 {
				fmt.Fprintln(out, "No owner names found")
				return nil
			}

			rows := make([][]string, 0, len(owners))
			for _, owner := range owners {
				class := "corporate"
				if geojson.PrivateOwner(owner) {
					class = "private"
				}
				rows = append(rows, []string{owner, class})
			}
			fmt.Fprint(out, report.Table(
				[]string{"Owner", "Class"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft},
				report.Interactive(out),
			))
			fmt.Fprintf(out, "%d owners: %d private, %d corporate\n", len(owners), len(private), len(corporate))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the classification as JSON")
	return cmd
}

func loadClassifyOwners(cmd *cobra.Command, arg string) ([]string, error) {
	if arg == "-" {
		return geojson.ParseOwners(cmd.InOrStdin())
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, err
	}
	return geojson.LoadOwners(path)
}
