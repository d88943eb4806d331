package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"
)

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			parent, name := path.Split(strings.TrimSuffix(args[0], "/"))
			folder, err := client.CreateFolder(cmd.Context(), parent, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("created"), cyan(folder.Path))
			return nil
		},
	}
}
