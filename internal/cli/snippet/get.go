package snippet

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a snippet",
	Long:  "Fetch one snippet and print its code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/snippets/%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			args[0])

		req, _ := http.NewRequest("GET", serverURL, nil)
		// Token is optional: it lets owners read their private snippets
		if token := viper.GetString("user.token"); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to get snippet: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		fmt.Printf("%s\n", titleStyle.Render(data["title"].(string)))
		if lang, ok := data["language"].(string); ok && lang != "" {
			fmt.Printf("Language: %s\n", lang)
		}
		fmt.Printf("Comments: codebin comment list --snippet %s\n", data["id"])
		fmt.Println()
		fmt.Println(data["code"])

		return nil
	},
}

func init() {
	SnippetCmd.AddCommand(getCmd)
}
