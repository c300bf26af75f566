package comment

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete your comment",
	Long:  "Soft-delete a comment you wrote; replies to it stay in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: codebin auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/comments/%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			args[0])

		req, _ := http.NewRequest("DELETE", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		fmt.Printf("✓ Comment deleted\n")
		return nil
	},
}

func init() {
	CommentCmd.AddCommand(rmCmd)
}
