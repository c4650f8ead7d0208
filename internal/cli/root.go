package cli

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/config"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/reconcile"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	sync := &TaskCommand{fs: fs, loaderOpts: loaderOpts, tasks: reconcile.DefaultTasks}

	rootCmd := &cobra.Command{
		Use:   "ideasync",
		Short: "Keep PhpStorm project settings in sync with composer.json",
		Long: `A CLI tool that keeps a PhpStorm project's .idea configuration in line
with the Composer project it belongs to.

It excludes vendor and build folders from indexing, creates PHPUnit run
configurations for every phpunit.xml in the project and points PhpStorm's
WordPress integration at the WordPress install.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `ideasync sync` when no subcommand is provided.
			return sync.Run(cmd, args)
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(NewSyncCommand(fs, loaderOpts...))
	rootCmd.AddCommand(NewExcludeCommand(fs, loaderOpts...))
	rootCmd.AddCommand(NewRunConfigsCommand(fs, loaderOpts...))
	rootCmd.AddCommand(NewWordPressCommand(fs, loaderOpts...))
	rootCmd.AddCommand(NewWatchCommand(fs, loaderOpts...))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()

	rootCmd := NewRootCommand(fs)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
