package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentwire/claudesdk/claude"
	"github.com/agentwire/claudesdk/protocol"
)

var (
	askModel          string
	askSystem         string
	askMaxTurns       int
	askPermissionMode string
	askCwd            string
	askCLI            string
	askVerboseJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a one-shot prompt and stream the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limits, err := resolveLimits()
		if err != nil {
			return fmt.Errorf("resolve limits: %w", err)
		}

		opts := []claude.Option{
			claude.WithSafetyLimits(limits),
			claude.WithLogger(newLogger()),
		}
		if askModel != "" {
			opts = append(opts, claude.WithModel(askModel))
		}
		if askSystem != "" {
			opts = append(opts, claude.WithSystemPrompt(askSystem))
		}
		if askMaxTurns > 0 {
			opts = append(opts, claude.WithMaxTurns(askMaxTurns))
		}
		if askPermissionMode != "" {
			opts = append(opts, claude.WithPermissionMode(claude.PermissionMode(askPermissionMode)))
		}
		if askCwd != "" {
			opts = append(opts, claude.WithWorkDir(askCwd))
		}
		if askCLI != "" {
			opts = append(opts, claude.WithCLIPath(askCLI))
		}

		events, err := claude.QueryStream(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}

		var final *protocol.ResultMessage
		for ev := range events {
			if ev.Err != nil {
				if !claude.IsRecoverable(ev.Err) {
					return ev.Err
				}
				fmt.Fprintf(os.Stderr, "warning: %v\n", ev.Err)
				continue
			}

			if askVerboseJSON {
				line, err := json.Marshal(ev.Message)
				if err == nil {
					fmt.Printf("%s %s\n", ev.Message.MsgType(), line)
				}
				if res, ok := ev.Message.(*protocol.ResultMessage); ok {
					final = res
				}
				continue
			}

			switch m := ev.Message.(type) {
			case *protocol.AssistantMessage:
				for _, block := range m.Content {
					if tb, ok := block.(protocol.TextBlock); ok {
						fmt.Print(tb.Text)
					}
				}
			case *protocol.ResultMessage:
				final = m
			}
		}
		if !askVerboseJSON {
			fmt.Println()
		}

		if final == nil {
			return fmt.Errorf("stream ended without a result")
		}

		fmt.Fprintf(os.Stderr, "turns=%d duration=%dms api=%dms", final.NumTurns, final.DurationMs, final.DurationAPIMs)
		if final.TotalCostUSD != nil {
			fmt.Fprintf(os.Stderr, " cost=$%.4f", *final.TotalCostUSD)
		}
		fmt.Fprintln(os.Stderr)

		if final.IsError {
			msg := final.Subtype
			if final.Result != nil {
				msg = *final.Result
			}
			return fmt.Errorf("query failed: %s", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askModel, "model", "", "Model to use (haiku, sonnet, opus, or full name)")
	askCmd.Flags().StringVar(&askSystem, "system", "", "Override the system prompt")
	askCmd.Flags().IntVar(&askMaxTurns, "max-turns", 0, "Limit the number of agent turns")
	askCmd.Flags().StringVar(&askPermissionMode, "permission-mode", "", "Permission mode (default, acceptEdits, bypassPermissions)")
	askCmd.Flags().StringVar(&askCwd, "cwd", "", "Working directory for the CLI")
	askCmd.Flags().StringVar(&askCLI, "cli", "", "Path to the claude binary")
	askCmd.Flags().BoolVar(&askVerboseJSON, "verbose-json", false, "Print each message as JSON instead of plain text")
}
