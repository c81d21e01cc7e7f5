package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/scout"
	"github.com/aretw0/scout/internal/presentation/tui"
	"github.com/aretw0/scout/pkg/tools"
)

const callExample = `  scout call get_company_job_postings --arg company=Acme --arg country=Belgium --arg companyId=1441
  scout call initiate_companies_data_collection --arg urls=https://www.linkedin.com/company/acme --arg urls=https://www.linkedin.com/company/globex
  scout call get_companies_data --json '{"snapshot_id":"s_123"}'`

var callCmd = &cobra.Command{
	Use:     "call <tool>",
	Short:   "Invoke a single tool and print its result",
	Example: callExample,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		pairs, _ := cmd.Flags().GetStringArray("arg")
		raw, _ := cmd.Flags().GetString("json")
		toolArgs, err := parseArgs(raw, pairs)
		if err != nil {
			return err
		}

		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		pretty := term.IsTerminal(int(os.Stdout.Fd()))
		if banner, _ := cmd.Flags().GetBool("banner"); banner && pretty {
			tui.PrintBanner(cmd.ErrOrStderr(), scout.Version)
		}

		out := cmd.OutOrStdout()
		res, callErr := svc.Call(cmd.Context(), name, toolArgs)
		if callErr != nil {
			payload, err := json.Marshal(tools.Classify(callErr))
			if err != nil {
				return err
			}
			if pretty {
				printMarkdown(cmd, tui.ErrorMarkdown(name, payload), string(payload))
			} else {
				fmt.Fprintln(out, string(payload))
			}
			return fmt.Errorf("%s failed", name)
		}

		if pretty {
			printMarkdown(cmd, tui.ResultMarkdown(name, res.Text()), res.Text())
			return nil
		}
		fmt.Fprintln(out, res.Text())
		return nil
	},
}

// printMarkdown renders md through glamour, falling back to the plain text.
func printMarkdown(cmd *cobra.Command, md, plain string) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 0
	}
	render, err := tui.NewRenderer(width)
	if err == nil {
		if s, err := render(md); err == nil {
			fmt.Fprint(cmd.OutOrStdout(), s)
			return
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), plain)
}

// parseArgs merges a JSON object with key=value pairs. Pair values that are
// valid JSON numbers or booleans keep that type; a key given more than once
// becomes a list.
func parseArgs(raw string, pairs []string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("invalid --json arguments: %w", err)
		}
	}

	seen := map[string]bool{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", p)
		}
		val := scalar(v)
		if !seen[k] {
			seen[k] = true
			args[k] = val
			continue
		}
		switch cur := args[k].(type) {
		case []any:
			args[k] = append(cur, val)
		default:
			args[k] = []any{cur, val}
		}
	}
	return args, nil
}

func scalar(v string) any {
	var out any
	if err := json.Unmarshal([]byte(v), &out); err == nil {
		switch out.(type) {
		case float64, bool:
			return out
		}
	}
	return v
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringArray("arg", nil, "Tool argument as key=value (repeat a key to pass a list)")
	callCmd.Flags().String("json", "", "Tool arguments as a JSON object")
	callCmd.Flags().Bool("banner", false, "Print the scout banner before the result")
}
