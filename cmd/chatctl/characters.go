package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

func init() {
	charactersCmd := &cobra.Command{Use: "characters", Short: "Character operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient(apiFlag).get(cmd.Context(), "/characters/")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	charactersCmd.AddCommand(listCmd)

	var file string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a character from a persona YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharacterCreate(cmd.Context(), newAPIClient(apiFlag), file, cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "", "Persona YAML file (required)")
	_ = createCmd.MarkFlagRequired("file")
	charactersCmd.AddCommand(createCmd)

	rootCmd.AddCommand(charactersCmd)
}

// runCharacterCreate posts one persona read from a YAML file.
func runCharacterCreate(ctx context.Context, c *apiClient, path string, out io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var spec model.CharacterSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if spec.Name == "" {
		return fmt.Errorf("%s: name is required", path)
	}
	data, err := c.postJSON(ctx, "/characters/", spec)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, string(data))
	return nil
}
