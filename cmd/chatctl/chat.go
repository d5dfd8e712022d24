package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var userFlag, characterFlag string

func init() {
	var debug bool
	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one message to a character and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), newAPIClient(apiFlag), userFlag, characterFlag, args[0], debug, cmd.OutOrStdout())
		},
	}
	chatCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	chatCmd.Flags().StringVarP(&characterFlag, "character", "c", "", "Character ID (required)")
	chatCmd.Flags().BoolVar(&debug, "debug", false, "Print the full response including intent and raw model output")
	_ = chatCmd.MarkFlagRequired("user")
	_ = chatCmd.MarkFlagRequired("character")
	rootCmd.AddCommand(chatCmd)

	historyCmd := &cobra.Command{
		Use:   "history USER_ID CHARACTER_ID",
		Short: "Print the conversation log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), newAPIClient(apiFlag), args[0], args[1], cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(historyCmd)
}

func runChat(ctx context.Context, c *apiClient, userID, characterID, message string, debug bool, out io.Writer) error {
	data, err := c.postJSON(ctx, "/chat", map[string]any{
		"user_id":      userID,
		"character_id": characterID,
		"user_message": message,
		"debug":        debug,
	})
	if err != nil {
		return err
	}
	if debug {
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	_, _ = fmt.Fprintln(out, resp.Reply)
	return nil
}

// runHistory prints one "[timestamp] speaker: message" line per turn.
func runHistory(ctx context.Context, c *apiClient, userID, characterID string, out io.Writer) error {
	data, err := c.get(ctx, "/history/"+userID+"/"+characterID)
	if err != nil {
		return err
	}
	var turns []struct {
		Speaker   string `json:"speaker"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &turns); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	for _, t := range turns {
		_, _ = fmt.Fprintf(out, "[%s] %s: %s\n", t.Timestamp, t.Speaker, t.Message)
	}
	return nil
}
