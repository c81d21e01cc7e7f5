package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		list := svc.Registry().List()
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			type entry struct {
				Name        string   `json:"name"`
				Description string   `json:"description"`
				Required    []string `json:"required"`
			}
			entries := make([]entry, 0, len(list))
			for _, t := range list {
				entries = append(entries, entry{Name: t.Name, Description: t.Description, Required: t.RequiredParams()})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tREQUIRED\tDESCRIPTION")
		for _, t := range list {
			desc, _, _ := strings.Cut(t.Description, ".")
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, strings.Join(t.RequiredParams(), ","), desc)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().Bool("json", false, "Print the tool list as JSON")
}
