package main

import (
	"context"

	"godocushare/cmd/docushare-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
