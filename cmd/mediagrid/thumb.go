package main

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tkarls/mediagrid/pkg/mgrid"
)

func thumbCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "thumb <key>",
		Short: "Fetch an item's thumbnail to a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(context.Background(), app.timeout)
			defer cancel()

			data, err := app.api.FetchThumb(ctx, args[0])
			if err != nil {
				return err
			}

			out := output
			if out == "" {
				out = thumbFileName(args[0])
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			pterm.Success.Printfln("wrote %s (%d bytes)", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.jpg)")
	return cmd
}

func thumbFileName(key string) string {
	base := path.Base(mgrid.DisplayPath(key))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".jpg"
}
