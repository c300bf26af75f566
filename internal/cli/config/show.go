package config

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display current codebin CLI configuration and connection settings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(headingStyle.Render("codebin configuration"))
		fmt.Println("")
		fmt.Printf("Server:\n")
		fmt.Printf("  Host: %s\n", viper.GetString("server.host"))
		fmt.Printf("  HTTP Port: %d\n", viper.GetInt("server.http_port"))
		fmt.Println("")

		username := viper.GetString("user.username")
		token := viper.GetString("user.token")

		if username == "" {
			fmt.Printf("User: Not logged in\n")
			fmt.Printf("  Run 'codebin auth login' to authenticate\n")
			return
		}

		fmt.Printf("User:\n")
		fmt.Printf("  Username: %s\n", username)
		if token != "" {
			if len(token) > 20 {
				fmt.Printf("  Token: %s...\n", token[:20])
			} else {
				fmt.Printf("  Token: %s\n", token)
			}
			fmt.Printf("  Status: %s\n", okStyle.Render("✓ Logged in"))
		} else {
			fmt.Printf("  Status: %s\n", warnStyle.Render("✗ Not logged in"))
		}
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
