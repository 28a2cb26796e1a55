package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/pkg/mgrid"
)

func lsCommand() *cobra.Command {
	var (
		recursive  bool
		groupByDir bool
		sortKey    string
		descending bool
		mediaType  string
		filter     string
	)

	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List a directory's derived catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(context.Background(), app.timeout)
			defer cancel()

			params, err := parseParams(mediaType, sortKey, recursive, groupByDir, descending)
			if err != nil {
				return err
			}
			if err := app.engine.SetParams(ctx, params); err != nil {
				return err
			}
			if err := app.engine.SetDir(ctx, args[0]); err != nil {
				pterm.Warning.Printfln("listing degraded: %v", err)
			}
			if filter != "" {
				app.engine.SetQuery(filter)
			}

			seq := app.engine.Sequence()
			visible := app.engine.Visible()
			if seq.Grouped() {
				query := catalog.ParseQuery(filter)
				for _, dir := range seq.GroupOrder {
					if !app.engine.Grid().GroupVisible(dir) {
						continue
					}
					pterm.DefaultSection.Println(mgrid.DisplayPath(dir))
					group := make([]catalog.Item, 0, len(seq.Groups[dir]))
					for _, it := range seq.Groups[dir] {
						if query.Matches(it) {
							group = append(group, it)
						}
					}
					if err := renderItems(group); err != nil {
						return err
					}
				}
			} else if err := renderItems(visible); err != nil {
				return err
			}

			pterm.Info.Printfln("%d visible of %d items", len(visible), len(seq.Items))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include descendant directories")
	cmd.Flags().BoolVarP(&groupByDir, "group", "g", false, "group by source directory (with --recursive)")
	cmd.Flags().StringVar(&sortKey, "sort", "name", "sort key (name|mtime|size)")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	cmd.Flags().StringVar(&mediaType, "type", "all", "media type (all|image|video)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "text filter")

	return cmd
}

func parseParams(mediaType string, sortKey string, recursive bool, groupByDir bool, descending bool) (catalog.Params, error) {
	p := catalog.Params{Recursive: recursive, GroupByDir: groupByDir, Ascending: !descending}

	switch mediaType {
	case "all":
		p.MediaType = catalog.MediaAll
	case "image", "images":
		p.MediaType = catalog.MediaImages
	case "video", "videos":
		p.MediaType = catalog.MediaVideos
	default:
		return p, fmt.Errorf("unsupported media type %q", mediaType)
	}

	switch sortKey {
	case "name":
		p.Sort = catalog.SortName
	case "mtime":
		p.Sort = catalog.SortMTime
	case "size":
		p.Sort = catalog.SortSize
	default:
		return p, fmt.Errorf("unsupported sort key %q", sortKey)
	}
	return p, nil
}

func renderItems(items []catalog.Item) error {
	data := pterm.TableData{{"NAME", "KIND", "SIZE", "MODIFIED"}}
	for _, it := range items {
		data = append(data, []string{
			mgrid.DisplayPath(it.Name),
			it.Kind,
			fmt.Sprintf("%d", it.Size),
			time.Unix(int64(it.MTime), 0).Format(time.DateTime),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
