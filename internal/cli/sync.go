package cli

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/config"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/reconcile"
	"github.com/spf13/cobra"
)

// TaskCommand runs one pass with a fixed set of tasks
type TaskCommand struct {
	fs         filesystem.FileSystem
	loaderOpts []config.Option
	tasks      []reconcile.Task
}

func newTaskCommand(fs filesystem.FileSystem, loaderOpts []config.Option, tasks []reconcile.Task, cobraCmd *cobra.Command) *cobra.Command {
	cmd := &TaskCommand{
		fs:         fs,
		loaderOpts: loaderOpts,
		tasks:      tasks,
	}
	cobraCmd.Args = cobra.NoArgs
	cobraCmd.RunE = cmd.Run
	return cobraCmd
}

// NewSyncCommand creates the sync command
func NewSyncCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	return newTaskCommand(fs, loaderOpts, reconcile.DefaultTasks, &cobra.Command{
		Use:   "sync",
		Short: "Synchronize excluded folders, run configurations and WordPress path",
		Long: `Runs every synchronization task once.

Each task works on its own file in .idea and stops quietly when that file is
missing or unreadable, so one broken file never blocks the others. Files are
only written when something changed.`,
		Example: `  # Synchronize the project in the current directory
  ideasync sync

  # Show what would change without writing anything
  ideasync sync --dry-run

  # Machine-readable notices
  ideasync sync --format json`,
	})
}

// NewExcludeCommand creates the exclude command
func NewExcludeCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	return newTaskCommand(fs, loaderOpts, []reconcile.Task{reconcile.TaskExcludeFolders}, &cobra.Command{
		Use:   "exclude",
		Short: "Synchronize excluded folders in the PhpStorm .iml file",
		Long: `Adds the folders listed under extra.phpstorm.exclude_folders.folders in
composer.json to the PhpStorm module's excluded folders and removes those
listed under include_folders. Symlinked packages and Mozart-prefixed
dependencies are excluded when configured.`,
	})
}

// NewRunConfigsCommand creates the run-configs command
func NewRunConfigsCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	return newTaskCommand(fs, loaderOpts, []reconcile.Task{reconcile.TaskRunConfigurations}, &cobra.Command{
		Use:   "run-configs",
		Short: "Synchronize PHPUnit run configurations in workspace.xml",
		Long: `Creates a PHPUnit run configuration for every phpunit.xml in the project
(vendor/ and wp-content/ are skipped) and removes configurations whose
phpunit.xml no longer exists.`,
	})
}

// NewWordPressCommand creates the wordpress command
func NewWordPressCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	return newTaskCommand(fs, loaderOpts, []reconcile.Task{reconcile.TaskWordPress}, &cobra.Command{
		Use:   "wordpress",
		Short: "Configure the WordPress path in workspace.xml",
		Long: `Looks for wp-load.php in the directories named by extra.wordpress-install-dir
and in the usual install locations, and enables PhpStorm's WordPress
integration for the first match. An existing configuration is left alone.`,
	})
}

// Run executes the command
func (c *TaskCommand) Run(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, c.fs, c.loaderOpts)
	if err != nil {
		return err
	}

	pass, runErr := s.runner(c.fs).Run(cmd.Context(), c.tasks...)
	if pass == nil {
		return fmt.Errorf("failed to synchronize: %w", runErr)
	}

	if err := s.print(pass); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("failed to synchronize: %w", runErr)
	}
	return nil
}
