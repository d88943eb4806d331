package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mv <from> <to>",
		Aliases: []string{"rename"},
		Short:   "Rename a file, or a folder with -r",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			recursive, _ := cmd.Flags().GetBool("recursive")
			from, to := args[0], args[1]
			if recursive {
				from, to = folderPath(from), folderPath(to)
			}

			res, err := client.Rename(cmd.Context(), from, to, recursive)
			if res != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s -> %s (%d keys)\n", green("moved"), res.OldKey, res.NewKey, res.Moved)
				for _, m := range res.Moves {
					if m.Status == "moved" {
						continue
					}
					fmt.Fprintf(out, "  %s %s -> %s: %s %s\n", red(m.Status), m.From, m.To, m.Reason, gray(hint(m.Status)))
				}
			}
			return err
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "rename a folder and everything below it")
	return cmd
}

func hint(status string) string {
	switch status {
	case "delete_failed":
		return "(copied, source still present)"
	case "copy_failed", "canceled":
		return "(not copied)"
	}
	return ""
}
