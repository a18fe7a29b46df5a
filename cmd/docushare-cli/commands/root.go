package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"godocushare/docushare"
)

var (
	baseURL  *string
	username *string
	domain   *string
	retries  *int
	ask      *bool
	verbose  *bool
	progress *bool
)

var rootCmd = &cobra.Command{
	Use:   "docushare-cli",
	Short: "docushare-cli browses and downloads from a DocuShare site.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		} else {
			slog.SetLogLoggerLevel(slog.LevelWarn)
		}
	},
}

func init() {
	baseURL = rootCmd.PersistentFlags().String("url", "", "Base URL of the site, e.g. https://your.domain/docushare/.")
	username = rootCmd.PersistentFlags().String("username", "", "Username to login as. Prompts when empty.")
	domain = rootCmd.PersistentFlags().String("domain", "", `Login domain, normally "DocuShare".`)
	retries = rootCmd.PersistentFlags().Int("retries", 0, "Login attempts before giving up.")
	ask = rootCmd.PersistentFlags().Bool("ask", false, "Always prompt for the password instead of using the OS credential vault.")
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Log every HTTP request.")
	progress = rootCmd.PersistentFlags().Bool("progress", true, "Show a progress bar on large downloads.")
	rootCmd.MarkPersistentFlagRequired("url")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

// newClient builds a client from the persistent flags and logs it in.
func newClient(ctx context.Context) *docushare.Client {
	client, err := docushare.New(docushare.Options{
		BaseURL:  *baseURL,
		Progress: *progress,
	})
	if err != nil {
		fatal("failed to initialize client", err)
	}

	source := docushare.PasswordStored
	if *ask {
		source = docushare.PasswordAsk
	}
	err = client.Login(ctx, docushare.LoginOptions{
		Username:   *username,
		Source:     source,
		RetryCount: *retries,
		Domain:     *domain,
	})
	if err != nil {
		fatal("failed to login", err)
	}
	return client
}
