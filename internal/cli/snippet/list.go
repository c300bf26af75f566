package snippet

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

var titleStyle = lipgloss.NewStyle().Bold(true)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets",
	Long:  "List public snippets, or your own with --mine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		page, _ := cmd.Flags().GetInt("page")
		mine, _ := cmd.Flags().GetBool("mine")

		params := url.Values{}
		params.Set("limit", fmt.Sprintf("%d", limit))
		params.Set("page", fmt.Sprintf("%d", page))

		path := "/api/v1/snippets"
		if mine {
			path = "/api/v1/snippets/mine"
		}
		serverURL := fmt.Sprintf("http://%s:%d%s?%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			path,
			params.Encode())

		req, _ := http.NewRequest("GET", serverURL, nil)
		if mine {
			token := viper.GetString("user.token")
			if token == "" {
				return fmt.Errorf("not logged in. Please run: codebin auth login")
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to list snippets: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		snippets, _ := data["data"].([]interface{})
		meta := data["meta"].(map[string]interface{})
		total := meta["total"].(float64)

		fmt.Printf("\nFound %d snippets:\n\n", int(total))

		for i, s := range snippets {
			item := s.(map[string]interface{})
			fmt.Printf("%d. %s\n", i+1, titleStyle.Render(item["title"].(string)))
			if lang, ok := item["language"].(string); ok && lang != "" {
				fmt.Printf("   Language: %s\n", lang)
			}
			if raw, ok := item["created_at"].(string); ok {
				if t, err := time.Parse(time.RFC3339, raw); err == nil {
					fmt.Printf("   Created: %s\n", utils.FormatTimestamp(t))
				}
			}
			fmt.Printf("   ID: %s\n\n", item["id"].(string))
		}

		return nil
	},
}

func init() {
	listCmd.Flags().Int("limit", 20, "Number of results")
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Bool("mine", false, "List your own snippets, private ones included")
	SnippetCmd.AddCommand(listCmd)
}
