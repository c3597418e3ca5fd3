package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mulebuy/internal/backup"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all products and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := backup.Export(a.store.Settings(), a.store.Products())
			if err != nil {
				return err
			}
			if out == "-" {
				fmt.Println(string(raw))
				return nil
			}
			if out == "" {
				out = backup.Filename(time.Now())
			}
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default mulebuy-backup-<date>.json, \"-\" for stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore products and settings from a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			res, err := backup.Import(raw, a.store.Settings())
			if err != nil {
				return err
			}
			if err := a.store.UpdateSettings(ctx, res.Settings); err != nil {
				return err
			}
			if res.HasProducts {
				a.store.ReplaceProducts(ctx, res.Products)
				fmt.Printf("imported %d product(s)\n", len(res.Products))
			}
			return nil
		},
	}
}
