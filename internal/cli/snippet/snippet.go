package snippet

import "github.com/spf13/cobra"

var SnippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Snippet commands",
	Long:  "Publish, browse, and manage code snippets",
}
