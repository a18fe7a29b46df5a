package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"godocushare/docushare"
)

var (
	downloadPolicy *string
	downloadTitles *bool
)

func init() {
	downloadPolicy = downloadCmd.Flags().String("policy", "children", `Which documents to fetch: "children", "flat" or "tree".`)
	downloadTitles = downloadCmd.Flags().Bool("titles", false, "Name mirrored directories after collection titles instead of handles.")
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <collection handle> [<directory>]",
	Short: "Download a collection's documents into a directory.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		policy, err := parsePolicy(*downloadPolicy)
		if err != nil {
			fatal("invalid flag", err)
		}
		destDir := ""
		if len(args) == 2 {
			destDir = args[1]
		}

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

		paths, downloadErr := col.Download(cmd.Context(), destDir, docushare.CollectionDownloadOptions{
			Policy:               policy,
			TitleAsDirectoryName: *downloadTitles,
		})
		for _, path := range paths {
			fmt.Println(path)
		}
		// Partial failures still report the files that made it.
		if downloadErr != nil {
			fatal("some downloads failed", downloadErr)
		}
	},
}

func parsePolicy(name string) (docushare.CollectionDownloadPolicy, error) {
	switch name {
	case "children":
		return docushare.ChildDocuments, nil
	case "flat":
		return docushare.AllDescendantsFlat, nil
	case "tree":
		return docushare.AllDescendantsTree, nil
	}
	return 0, fmt.Errorf("unknown download policy %q", name)
}
