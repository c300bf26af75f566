package snippet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Publish a code snippet",
	Long:  "Upload a file as a new snippet; use --private to keep it owner-only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		language, _ := cmd.Flags().GetString("language")
		private, _ := cmd.Flags().GetBool("private")

		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: codebin auth login")
		}

		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		if title == "" {
			title = args[0]
		}

		body := map[string]interface{}{
			"title":     title,
			"language":  language,
			"code":      string(code),
			"is_public": !private,
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/snippets",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to create snippet: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		fmt.Printf("✓ Snippet published\n")
		fmt.Printf("  ID: %s\n", data["id"])
		fmt.Printf("  Title: %s\n", data["title"])
		if private {
			fmt.Printf("  Visibility: private\n")
		} else {
			fmt.Printf("  Visibility: public\n")
		}

		return nil
	},
}

func init() {
	createCmd.Flags().String("title", "", "Snippet title (defaults to file name)")
	createCmd.Flags().String("language", "", "Language hint for highlighting")
	createCmd.Flags().Bool("private", false, "Keep the snippet owner-only")
	SnippetCmd.AddCommand(createCmd)
}
