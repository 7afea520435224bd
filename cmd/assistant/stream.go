package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskboard/assistant/tools"
	"github.com/taskboard/assistant/tracker"
)

var streamCmd = &cobra.Command{
	Use:   "stream <message>",
	Short: "Run one turn and print the raw event stream as JSON lines",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStream,
}

func runStream(cmd *cobra.Command, args []string) error {
	a, err := buildAssistant()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stream, err := a.ChatStream(ctx, userID, "", strings.Join(args, " "))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	for ev := range stream {
		if err := encoder.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the assistant can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The catalog needs no engine, so no API key is required here.
		registry, err := tools.NewCatalog(tracker.NewClient(tracker.Config{
			BaseURL:   backendURL,
			AuthToken: authToken,
		}))
		if err != nil {
			return err
		}
		for _, tool := range registry.List() {
			fmt.Printf("%-20s %s\n", tool.Name, tool.Description)
		}
		return nil
	},
}
