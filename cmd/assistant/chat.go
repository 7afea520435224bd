package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskboard/assistant/assistant"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the assistant, one-shot or interactively",
	Long: `Without a message, starts an interactive conversation. Slash commands:

  /session   show the current session
  /reset     start a fresh session
  /quit      leave`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "send one message and exit")
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildAssistant()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	message := chatMessage
	if message == "" && len(args) > 0 {
		message = strings.Join(args, " ")
	}
	if message != "" {
		result, err := a.Chat(ctx, userID, "", message)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	}

	return repl(ctx, a)
}

func repl(ctx context.Context, a *assistant.Assistant) error {
	fmt.Println("Task assistant ready. /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return nil
		case "/reset":
			if sessionID != "" {
				a.DeleteSession(ctx, userID, sessionID)
			}
			sessionID = ""
			fmt.Println("Session reset.")
			continue
		case "/session":
			if sessionID == "" {
				fmt.Println("No session yet.")
				continue
			}
			info, ok := a.Session(ctx, userID, sessionID)
			if !ok {
				fmt.Println("Session expired.")
				sessionID = ""
				continue
			}
			fmt.Printf("Session %s: %d turns, last active %s\n",
				info.ID, info.EventCount, info.LastActive.Format("15:04:05"))
			continue
		}

		result, err := a.Chat(ctx, userID, sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		sessionID = result.SessionID
		printResult(result)
	}
}

func printResult(result *assistant.Result) {
	for _, action := range result.Actions {
		status := "ok"
		if action.Result == nil {
			status = "?"
		} else if !action.Result.Success {
			status = "failed"
			if action.Result.RequiresConfirmation {
				status = "needs confirmation"
			}
		}
		fmt.Printf("  [%s] %s\n", status, action.Tool)
	}
	fmt.Println(result.Response)
}
