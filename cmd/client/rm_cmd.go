package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file, or a folder and everything below it with -r",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			recursive, _ := cmd.Flags().GetBool("recursive")
			target := args[0]
			if recursive {
				target = folderPath(target)
			} else if strings.HasSuffix(target, "/") {
				return fmt.Errorf("%s is a folder, use -r", target)
			}

			res, err := client.Delete(cmd.Context(), target, recursive)
			if res != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s (%d keys, %d batches)\n", green("deleted"), res.Path, res.Deleted, res.Batches)
				for _, f := range res.Failed {
					fmt.Fprintf(out, "  %s %s: %s\n", red("failed"), f.Key, f.Reason)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "delete a folder recursively")
	return cmd
}

// folderPath ensures p names a folder
func folderPath(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
