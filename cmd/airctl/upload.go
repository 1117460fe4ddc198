package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.bin>",
		Short: "Upload a firmware image to the sensor controllers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := homedir.Expand(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := opts.client().UploadFirmware(ctx, path, f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", filepath.Base(path))
			return nil
		},
	}
}
