package main

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage product tags",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <tag> <id>...",
			Short: "Add a tag to one or more products",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := a.resolveAll(args[1:])
				if err != nil {
					return err
				}
				a.store.BulkAddTag(cmd.Context(), ids, args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <tag> <id>",
			Short: "Remove a tag from a product",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.resolve(args[1])
				if err != nil {
					return err
				}
				return a.store.RemoveTag(cmd.Context(), p.ID, args[0])
			},
		},
	)
	return cmd
}

func newQCCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Manage QC photo links",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <url>",
			Short: "Attach a QC photo link",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				return a.store.AddQCLink(cmd.Context(), p.ID, args[1])
			},
		},
		&cobra.Command{
			Use:   "rm <id> <index>",
			Short: "Remove a QC photo link by position",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				index, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid index %q", args[1])
				}
				return a.store.RemoveQCLink(cmd.Context(), p.ID, index)
			},
		},
	)
	return cmd
}

func newImageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "img",
		Short: "Manage embedded product images",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <file>",
			Short: "Embed a local image file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				data, err := encodeImage(args[1])
				if err != nil {
					return err
				}
				return a.store.AddImage(cmd.Context(), p.ID, data)
			},
		},
		&cobra.Command{
			Use:   "rm <id> <index>",
			Short: "Remove an embedded image by position",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				index, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid index %q", args[1])
				}
				return a.store.RemoveImage(cmd.Context(), p.ID, index)
			},
		},
	)
	return cmd
}

// encodeImage reads a local file and embeds it as a data URL, the same
// payload shape the persisted localImages field has always carried.
func encodeImage(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
