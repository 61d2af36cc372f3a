package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/content"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [content.yaml]",
		Short: "Load photos, projects and skills into the database",
		Long:  "Load a content file into the database. Without an argument the configured content file, or the bundled default content, is imported.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			path := cfg.ContentFile
			if len(args) == 1 {
				path = args[0]
			}
			c, err := loadContent(path)
			if err != nil {
				return err
			}
			res, err := content.Import(db, c, cfg.PhotosDir())
			if err != nil {
				return fmt.Errorf("failed to import content: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d photos, %d projects, %d skill categories\n", res.Photos, res.Projects, res.Skills)
			return nil
		},
	}
}

func newAuthConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-config",
		Short: "Print the identity service declaration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			identity, err := identityConfig(cfg)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(identity)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			return nil
		},
	}
}
