package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tkarls/mediagrid/internal/player"
	"github.com/tkarls/mediagrid/internal/viewer"
	"github.com/tkarls/mediagrid/pkg/mgrid"
)

func viewCommand() *cobra.Command {
	var (
		key       string
		recursive bool
		shuffle   bool
		play      bool
		slideshow bool
		interval  time.Duration
		count     int
	)

	cmd := &cobra.Command{
		Use:   "view <dir>",
		Short: "Step through a directory's items in the viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(context.Background(), app.timeout)
			defer cancel()

			params := app.engine.Params()
			params.Recursive = recursive
			if err := app.engine.SetParams(ctx, params); err != nil {
				return err
			}
			if err := app.engine.SetDir(ctx, args[0]); err != nil {
				pterm.Warning.Printfln("listing degraded: %v", err)
			}
			if len(app.engine.Visible()) == 0 {
				return fmt.Errorf("no visible items in %s", args[0])
			}

			v := app.engine.Viewer()
			v.SetShuffle(shuffle)

			opened := false
			if key != "" {
				opened = app.engine.OpenKey(key)
			} else {
				opened = app.engine.OpenIndex(0)
			}
			if !opened {
				return fmt.Errorf("item not visible: %s", key)
			}
			defer v.Close()

			var drv *player.Driver
			if play {
				var err error
				if drv, err = player.NewDriver(); err != nil {
					pterm.Warning.Printfln("playback disabled: %v", err)
				} else {
					defer drv.Stop()
				}
			}

			steps := count
			if slideshow && steps == 0 {
				steps = len(app.engine.Visible())
			}

			showCurrent(app, v, drv)
			for i := 1; i < steps; i++ {
				if slideshow {
					select {
					case <-cmd.Context().Done():
						return cmd.Context().Err()
					case <-time.After(interval):
					}
				}
				v.Navigate(1)
				showCurrent(app, v, drv)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "open this item instead of the first visible one")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include descendant directories")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "traverse in shuffled order")
	cmd.Flags().BoolVar(&play, "play", false, "render items through the media player")
	cmd.Flags().BoolVar(&slideshow, "slideshow", false, "advance automatically through the sequence")
	cmd.Flags().DurationVar(&interval, "interval", viewer.DefaultSlideshowInterval, "slideshow interval")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of items to step through")

	return cmd
}

func showCurrent(app *app, v *viewer.Viewer, drv *player.Driver) {
	current, ok := v.Current()
	if !ok {
		return
	}
	pterm.Printfln("%s %s (%s)",
		pterm.Gray(fmt.Sprintf("[%d/%d]", v.Index()+1, len(app.engine.Visible()))),
		mgrid.DisplayPath(current.Key), current.Kind)
	if drv != nil {
		ctx, cancel := withTimeout(context.Background(), app.timeout)
		app.engine.Play(ctx, drv)
		cancel()
	}
}
