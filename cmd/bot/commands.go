package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/jobs"
	slackpkg "github.com/shubh-37/content-intelligence/internal/slack"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Slack bot and the scheduled import and voice jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateSlack(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			log.Println("🚀 Content Intelligence Bot Starting...")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			log.Println("✅ Database connected and ready")

			slackClient, err := slackpkg.NewClient(cfg.SlackToken)
			if err != nil {
				return err
			}

			approvalHandler := slackpkg.NewApprovalHandler(slackClient, a.posts)
			commandHandler := slackpkg.NewCommandHandler(slackClient, a.manager, a.posts, approvalHandler, cfg.Timezone)
			messageHandler := slackpkg.NewMessageHandler(slackClient, a.manager, commandHandler)
			slackServer := slackpkg.NewServer(messageHandler, approvalHandler, cfg.SlackSigningSecret)

			runner := jobs.NewRunner(func(ctx context.Context, userID string) (jobs.Target, error) {
				return a.manager.Session(ctx, userID)
			}, a.users)
			if err := runner.Register(cfg.ImportSchedule, cfg.VoiceSchedule); err != nil {
				return err
			}
			runner.Start(ctx)
			defer runner.Stop()

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- slackServer.Start(cfg.Port)
			}()

			log.Println("✅ System initialized successfully")
			log.Println("📊 Database: Connected and ready")
			log.Println("🎙️ Voice profiles, generator and analytics: per-user sessions on demand")
			log.Println("✅ Approval System: Ready for reactions")
			log.Println("💬 Slack: Connected and listening")
			log.Println("")
			log.Println("Bot is running. Press Ctrl+C to stop...")

			select {
			case err := <-serverErr:
				if err != nil {
					return fmt.Errorf("slack server stopped: %w", err)
				}
			case <-ctx.Done():
			}

			log.Println("Shutting down gracefully...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return slackServer.Shutdown(shutdownCtx)
		},
	}
}

func newImportCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "import-metrics",
		Short: "Pull fresh engagement metrics for published posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			users := jobs.StaticUsers(userFlag)
			if all {
				users = a.users
			}

			runner := jobs.NewRunner(func(ctx context.Context, userID string) (jobs.Target, error) {
				return a.manager.Session(ctx, userID)
			}, users)

			result := runner.RunImport(ctx)
			fmt.Printf("attempted=%d imported=%d failed=%d skipped=%d\n",
				result.Attempted, result.Imported, result.Failed, result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "import for every known user")
	return cmd
}

func newRebuildVoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-voice",
		Short: "Rebuild a user's voice profile if enough new posts have arrived, then print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			// Opening the session applies the rebuild rule
			session, err := a.manager.Session(ctx, userFlag)
			if err != nil {
				return err
			}

			profile := session.Profile()
			if profile == nil {
				fmt.Println("not enough authored posts to build a profile")
				return nil
			}
			return printJSON(profile)
		},
	}
}

func newInsightsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print ranked engagement insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.manager.Session(ctx, userFlag)
			if err != nil {
				return err
			}

			insights, err := session.Insights(ctx, days)
			if err != nil {
				return err
			}
			return printJSON(insights)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "analysis window in days")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		platform string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Generate a post from a template in the user's voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.manager.Session(ctx, userFlag)
			if err != nil {
				return err
			}

			content, err := session.Generate(ctx, args[0], platform, nil)
			if err != nil {
				return err
			}

			if save {
				post, err := session.SaveDraft(ctx, content, platform)
				if err != nil {
					return err
				}
				log.Printf("✅ Saved draft %s", post.ID)
			}

			fmt.Println(content.Content)
			fmt.Printf("\nscore=%d tone=%s type=%s best_times=%s\n",
				content.EngagementScore, content.Tone, content.ContentType, strings.Join(content.SuggestedTimes, ","))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "adapt for linkedin, twitter or instagram")
	cmd.Flags().BoolVar(&save, "save", false, "store the result as a draft")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the content templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := generator.Templates()
			if platform != "" {
				templates = generator.TemplatesForPlatform(platform)
			}

			for _, tpl := range templates {
				fmt.Printf("%-24s %-16s %s\n", tpl.ID, tpl.Category, strings.Join(tpl.Platforms, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "only templates for this platform")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Score a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			analysis := analyzer.Analyze(text, &analyzer.Metadata{Platform: platform})

			return printJSON(struct {
				analyzer.ContentAnalysis
				EngagementScore int `json:"engagement_score"`
			}{analysis, generator.Score(text, "")})
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "platform the text is for")
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
