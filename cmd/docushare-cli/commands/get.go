package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"godocushare/docushare"
)

var getOutput *string

func init() {
	getOutput = getCmd.Flags().StringP("output", "o", "", "Destination file or directory. Defaults to the site's file name.")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <handle> [-o <path>]",
	Short: "Download the file behind a document or version.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd.Context())
		defer client.Close()

		obj, err := client.Object(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to load object", err)
		}

		var path string
		switch obj := obj.(type) {
		case *docushare.DocumentObject:
			path, err = obj.Download(cmd.Context(), *getOutput)
		case *docushare.VersionObject:
			path, err = obj.Download(cmd.Context(), *getOutput)
		default:
			fatal("failed to download", fmt.Errorf("%s has no file to download", args[0]))
		}
		if err != nil {
			fatal("failed to download", err)
		}
		fmt.Println(path)
	},
}
