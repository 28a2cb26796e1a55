package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func urlCommand() *cobra.Command {
	var (
		thumb   bool
		copyURL bool
	)

	cmd := &cobra.Command{
		Use:   "url <key>",
		Short: "Print an item's media URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)

			u := app.api.FileURL(args[0])
			if thumb {
				u = app.api.ThumbURL(args[0])
			}
			pterm.Println(u)

			if copyURL {
				app.engine.CopyFileURL(args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&thumb, "thumb", false, "print the thumbnail URL instead")
	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "also copy the file URL to the clipboard")
	return cmd
}
