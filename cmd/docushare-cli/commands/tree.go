package commands

import (
	"context"
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"godocushare/docushare"
	"godocushare/handle"
)

func init() {
	rootCmd.AddCommand(treeCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree <collection handle>",
	Short: "Print the object tree under a collection.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd.Context())
		defer client.Close()

		obj, err := client.Object(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to load collection", err)
		}
		col, ok := obj.(*docushare.CollectionObject)
		if !ok {
			fatal("failed to load collection", fmt.Errorf("%s is not a collection", args[0]))
		}

		root, err := col.Tree(cmd.Context())
		if err != nil {
			fatal("failed to walk collection", err)
		}

		visual := gotree.New(nodeLabel(cmd.Context(), client, root))
		appendChildren(cmd.Context(), client, visual, root)
		fmt.Print(visual.Print())
	},
}

func appendChildren(ctx context.Context, client *docushare.Client, visual gotree.Tree, node *handle.Node) {
	for _, child := range node.Children() {
		sub := visual.Add(nodeLabel(ctx, client, child))
		appendChildren(ctx, client, sub, child)
	}
}

// nodeLabel renders "Title (Handle)". The objects are already in the
// session cache from building the tree, so this does not refetch.
func nodeLabel(ctx context.Context, client *docushare.Client, node *handle.Node) string {
	obj, err := client.Object(ctx, node.Handle)
	if err != nil {
		return node.Handle.Identifier()
	}
	return fmt.Sprintf("%s (%s)", obj.Title(), node.Handle.Identifier())
}
