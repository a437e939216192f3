package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/segment"
)

// tablesCmd 列出全部目标表及其来源段
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List destination tables and the segment codes that feed them",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTABLE\tSEGMENTS\tSTATUS")
		for _, t := range segment.Default().Tables() {
			status := "active"
			if t.Discontinued {
				status = "discontinued"
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", t.Name, segment.TablePrefix+t.ID, t.Sources, status)
		}
		return w.Flush()
	},
}
