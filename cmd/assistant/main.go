// Command assistant is the CLI for the conversational task-management
// service: chat with the assistant about projects and tickets, one-shot or
// interactively, against a running tracker backend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard/assistant/assistant"
)

var (
	configFile string
	backendURL string
	authToken  string
	apiKey     string
	model      string
	userID     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Conversational assistant for the task tracker",
	Long: `assistant talks to your ticket tracker in natural language.

It resolves projects and tickets by name, creates and updates tickets,
moves them across the board, and reports board summaries. Destructive
ticket deletes require an explicit confirmation round-trip.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "tracker backend URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "tracker auth token (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Gemini model (overrides config)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "user id for session scoping")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(toolsCmd)
}

// buildAssistant loads the config file (when given), layers flag overrides
// on top, and constructs the service.
func buildAssistant() (*assistant.Assistant, error) {
	var cfg *assistant.Config
	if configFile != "" {
		loaded, err := assistant.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		base := assistant.DefaultConfig()
		cfg = &base
	}

	if backendURL != "" {
		cfg.Tracker.BaseURL = backendURL
	}
	if authToken != "" {
		cfg.Tracker.AuthToken = authToken
	}
	if apiKey != "" {
		cfg.Engine.APIKey = apiKey
	}
	if model != "" {
		cfg.Engine.Model = model
	}
	if cfg.Engine.APIKey == "" {
		cfg.Engine.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return assistant.New(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
