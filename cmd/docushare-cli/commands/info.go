package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"godocushare/docushare"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var infoCmd = &cobra.Command{
	Use:   "info <handle>",
	Short: "Show the metadata of a document, version or collection.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(cmd.Context())
		defer client.Close()

		obj, err := client.Object(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to load object", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Property", "Value"})
		t.AppendRow(table.Row{"Handle", obj.Handle().Identifier()})
		t.AppendRow(table.Row{"Title", obj.Title()})

		switch obj := obj.(type) {
		case *docushare.DocumentObject:
			t.AppendRow(table.Row{"Filename", obj.Filename()})
			if obj.DocumentControlNumber() != "" {
				t.AppendRow(table.Row{"Document Control Number", obj.DocumentControlNumber()})
			}
			for i, version := range obj.VersionHandles() {
				t.AppendRow(table.Row{"Version " + strconv.Itoa(i+1), version.Identifier()})
			}
		case *docushare.VersionObject:
			t.AppendRow(table.Row{"Filename", obj.Filename()})
			t.AppendRow(table.Row{"Version Number", obj.VersionNumber()})
		case *docushare.CollectionObject:
			for i, child := range obj.ObjectHandles() {
				t.AppendRow(table.Row{"Child " + strconv.Itoa(i+1), child.Identifier()})
			}
		}
		t.Render()
	},
}
