package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shubh-37/content-intelligence/config"
)

var (
	cfg      *config.Config
	userFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Content intelligence bot: learns your voice, drafts posts and tracks what works",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.LoadConfig()
			if userFlag == "" {
				userFlag = cfg.DefaultUserID
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user ID to act for (defaults to DEFAULT_USER_ID)")

	rootCmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newRebuildVoiceCmd(),
		newInsightsCmd(),
		newGenerateCmd(),
		newTemplatesCmd(),
		newAnalyzeCmd(),
		newHabitCmd(),
		newGoalCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
