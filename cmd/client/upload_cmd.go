package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload local files into a folder through presigned URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			to, _ := cmd.Flags().GetString("to")
			contentType, _ := cmd.Flags().GetString("content-type")
			out := cmd.OutOrStdout()

			var errs []error
			for _, file := range args {
				info, err := os.Stat(file)
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(out, "%s %s: %v\n", red("failed"), file, err)
					continue
				}

				grant, err := client.UploadFile(cmd.Context(), file, folderPath(to), contentType)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", file, err))
					fmt.Fprintf(out, "%s %s: %v\n", red("failed"), file, err)
					continue
				}
				fmt.Fprintf(out, "%s %s (%s)\n", green("uploaded"), grant.Path, humanize.IBytes(uint64(info.Size())))
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().String("to", "", "destination folder")
	cmd.Flags().String("content-type", "", "content type, detected from the extension when empty")
	return cmd
}
