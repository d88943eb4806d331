package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [path]",
		Aliases: []string{"list"},
		Short:   "List the folders and files directly below a path",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = folderPath(args[0])
			}
			match, _ := cmd.Flags().GetString("match")

			listing, err := client.List(cmd.Context(), prefix, match)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, folder := range listing.Folders {
				fmt.Fprintf(w, "%s\t%s\t%s\n", gray("-"), gray("-"), cyan(folder.Name+"/"))
			}
			for _, file := range listing.Files {
				modified := "-"
				if file.LastModified != nil {
					modified = humanize.Time(*file.LastModified)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.IBytes(file.Size), modified, file.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), gray(fmt.Sprintf("%d folders, %d files", len(listing.Folders), len(listing.Files))))
			return nil
		},
	}
	cmd.Flags().StringP("match", "m", "", "only show names matching a glob, e.g. '*.pdf'")
	return cmd
}
