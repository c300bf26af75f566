package comment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Report a comment",
	Long:  "Flag a comment for moderation; works without logging in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		message, _ := cmd.Flags().GetString("message")

		body := map[string]interface{}{
			"reason": reason,
		}
		if message != "" {
			body["message"] = message
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/comments/%s/flags",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			args[0])

		req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		// Anonymous flags are accepted; a token attributes the report
		if token := viper.GetString("user.token"); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to flag comment: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		fmt.Printf("✓ Comment reported (%s)\n", reason)
		return nil
	},
}

var unflagCmd = &cobra.Command{
	Use:   "unflag <id>",
	Short: "Withdraw a report",
	Long:  "Withdraw your own report for the given reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		params := url.Values{}
		params.Set("reason", reason)

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/comments/%s/flags?%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			args[0],
			params.Encode())

		req, _ := http.NewRequest("DELETE", serverURL, nil)
		if token := viper.GetString("user.token"); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to withdraw report: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		fmt.Printf("✓ Report withdrawn\n")
		return nil
	},
}

func init() {
	flagCmd.Flags().String("reason", "other", "Reason (spam, abuse, off-topic, other)")
	flagCmd.Flags().String("message", "", "Optional note for moderators")
	unflagCmd.Flags().String("reason", "other", "Reason the report was made under")
	CommentCmd.AddCommand(flagCmd)
	CommentCmd.AddCommand(unflagCmd)
}
