// Package cli assembles the codebin command-line client.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	authCli "codebin/internal/cli/auth"
	commentCli "codebin/internal/cli/comment"
	configCli "codebin/internal/cli/config"
	snippetCli "codebin/internal/cli/snippet"
)

var rootCmd = &cobra.Command{
	Use:   "codebin",
	Short: "codebin command-line client",
	Long:  "Publish code snippets, browse comment threads, and report abuse from the terminal",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(authCli.AuthCmd)
	rootCmd.AddCommand(snippetCli.SnippetCmd)
	rootCmd.AddCommand(commentCli.CommentCmd)
	rootCmd.AddCommand(configCli.ConfigCmd)
}

func initConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".codebin", "config.yaml"))

	// Missing config just means nobody logged in yet
	_ = viper.ReadInConfig()
}
