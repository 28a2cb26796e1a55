package main

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tkarls/mediagrid/pkg/mgrid"
)

func treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the server directory tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(context.Background(), app.timeout)
			defer cancel()

			roots, err := app.engine.Tree(ctx)
			if err != nil {
				return err
			}

			node := pterm.TreeNode{Text: "/", Children: treeNodes(roots)}
			return pterm.DefaultTree.WithRoot(node).Render()
		},
	}
}

func treeNodes(dirs []mgrid.TreeNode) []pterm.TreeNode {
	out := make([]pterm.TreeNode, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, pterm.TreeNode{
			Text:     mgrid.DisplayPath(dir.Name),
			Children: treeNodes(dir.Dirs),
		})
	}
	return out
}
