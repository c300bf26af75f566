package comment

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codebin/pkg/utils"
)

var (
	authorStyle    = lipgloss.NewStyle().Bold(true)
	tombstoneStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments on a snippet",
	Long:  "List one level of a snippet's comment thread; use --parent to descend into replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		snippetID, _ := cmd.Flags().GetString("snippet")
		parentID, _ := cmd.Flags().GetString("parent")
		limit, _ := cmd.Flags().GetInt("limit")
		page, _ := cmd.Flags().GetInt("page")
		order, _ := cmd.Flags().GetString("order")

		if snippetID == "" {
			return fmt.Errorf("--snippet is required")
		}

		params := url.Values{}
		params.Set("limit", fmt.Sprintf("%d", limit))
		params.Set("page", fmt.Sprintf("%d", page))
		params.Set("order", order)
		if parentID != "" {
			params.Set("parent_id", parentID)
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/snippets/%s/comments?%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			snippetID,
			params.Encode())

		req, _ := http.NewRequest("GET", serverURL, nil)
		if token := viper.GetString("user.token"); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		comments, _ := data["data"].([]interface{})
		meta := data["meta"].(map[string]interface{})
		total := meta["total"].(float64)

		fmt.Printf("\n%d comments:\n\n", int(total))

		for _, item := range comments {
			c := item.(map[string]interface{})

			author := "anonymous"
			if a, ok := c["author_id"].(string); ok {
				author = a
			}
			when := ""
			if raw, ok := c["created_at"].(string); ok {
				if t, err := time.Parse(time.RFC3339, raw); err == nil {
					when = " · " + utils.TimeAgo(t)
				}
			}
			fmt.Printf("%s%s\n", authorStyle.Render(author), when)

			if c["deleted_at"] != nil {
				fmt.Printf("  %s\n", tombstoneStyle.Render("[deleted]"))
			} else {
				fmt.Printf("  %s\n", c["body"])
			}

			if replies, ok := c["reply_count"].(float64); ok && replies > 0 {
				fmt.Printf("  %.0f replies (--parent %s)\n", replies, c["id"])
			}
			fmt.Printf("  ID: %s\n\n", c["id"])
		}

		return nil
	},
}

func init() {
	listCmd.Flags().String("snippet", "", "Snippet ID (required)")
	listCmd.Flags().String("parent", "", "Parent comment ID to list replies of")
	listCmd.Flags().Int("limit", 20, "Number of results")
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().String("order", "asc", "Sort order on creation time (asc, desc)")
	listCmd.MarkFlagRequired("snippet")
	CommentCmd.AddCommand(listCmd)
}
