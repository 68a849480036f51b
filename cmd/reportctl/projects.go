package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProjectsCmd(a *app) *cobra.Command {
	var all, externalOnly bool
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects known to the HR system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.client.GetProjects(cmd.Context(), !all)
			if err != nil {
				return err
			}
			if externalOnly {
				projects = a.rules.ExternalProjects(projects)
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDISPLAY\tACTIVE")
			for _, p := range projects {
				display := "-"
				if a.rules.IsExternal(p.Name) {
					display = a.rules.DisplayName(p.Name)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", p.ID, p.Name, display, p.Active)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include inactive projects")
	cmd.Flags().BoolVar(&externalOnly, "external", false, "only external projects")
	return cmd
}
