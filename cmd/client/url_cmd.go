package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <path>",
		Short: "Print a temporary download URL for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ttl, _ := cmd.Flags().GetDuration("ttl")
			output, _ := cmd.Flags().GetString("output")

			grant, err := client.PresignDownload(cmd.Context(), args[0], ttl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "" {
				fmt.Fprintln(out, grant.URL)
				fmt.Fprintln(out, gray("expires "+humanize.Time(grant.ExpiresAt)))
				return nil
			}

			if err := client.Get(cmd.Context(), grant, output); err != nil {
				return err
			}
			abs, _ := filepath.Abs(output)
			fmt.Fprintf(out, "%s %s -> %s\n", green("downloaded"), grant.Path, abs)
			return nil
		},
	}
	cmd.Flags().Duration("ttl", 0, "URL lifetime, the server default when zero")
	cmd.Flags().StringP("output", "o", "", "download to this local file instead of printing the URL")
	return cmd
}
