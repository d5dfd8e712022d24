package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	constructsCmd := &cobra.Command{Use: "constructs", Short: "Value construct operations"}

	var outFile string
	exportCmd := &cobra.Command{
		Use:   "export USER_ID CHARACTER_ID",
		Short: "Export constructs as newline-delimited JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			return runExport(cmd.Context(), newAPIClient(apiFlag), args[0], args[1], out)
		},
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write to file instead of stdout")
	constructsCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import constructs from a newline-delimited JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), newAPIClient(apiFlag), args[0], cmd.OutOrStdout())
		},
	}
	constructsCmd.AddCommand(importCmd)

	rootCmd.AddCommand(constructsCmd)
}

func runExport(ctx context.Context, c *apiClient, userID, characterID string, out io.Writer) error {
	data, err := c.get(ctx, "/constructs/export/"+userID+"/"+characterID)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runImport(ctx context.Context, c *apiClient, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	data, err := c.postNDJSON(ctx, "/constructs/import", f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, string(data))
	return nil
}
