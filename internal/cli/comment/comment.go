package comment

import "github.com/spf13/cobra"

var CommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  "Browse, post, delete, and report comments on snippets",
}
