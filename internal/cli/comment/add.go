package comment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var addCmd = &cobra.Command{
	Use:   "add <body>",
	Short: "Post a comment on a snippet",
	Long:  "Post a top-level comment, or a reply with --parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippetID, _ := cmd.Flags().GetString("snippet")
		parentID, _ := cmd.Flags().GetString("parent")

		if snippetID == "" {
			return fmt.Errorf("--snippet is required")
		}

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: codebin auth login")
		}

		body := map[string]interface{}{
			"body": args[0],
		}
		if parentID != "" {
			body["parent_id"] = parentID
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/snippets/%s/comments",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			snippetID)

		req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to post comment: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		fmt.Printf("✓ Comment posted\n")
		fmt.Printf("  ID: %s\n", data["id"])
		if parentID != "" {
			fmt.Printf("  In reply to: %s\n", parentID)
		}

		return nil
	},
}

func init() {
	addCmd.Flags().String("snippet", "", "Snippet ID (required)")
	addCmd.Flags().String("parent", "", "Parent comment ID to reply to")
	addCmd.MarkFlagRequired("snippet")
	CommentCmd.AddCommand(addCmd)
}
