package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jakoblorz/go-ideasync/internal/config"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/watch"
	"github.com/spf13/cobra"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	fs         filesystem.FileSystem
	loaderOpts []config.Option
}

// NewWatchCommand creates a new watch command
func NewWatchCommand(fs filesystem.FileSystem, loaderOpts ...config.Option) *cobra.Command {
	cmd := &WatchCommand{fs: fs, loaderOpts: loaderOpts}

	cobraCmd := &cobra.Command{
		Use:   "watch",
		Short: "Synchronize now and again whenever Composer files change",
		Long: `Runs a full synchronization, then watches composer.json, composer.lock and
vendor/composer/installed.json and synchronizes again after every change,
until interrupted.

This replaces running ideasync from Composer's post-install-cmd and
post-update-cmd hooks.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Duration("debounce", 0, "Quiet period before a change triggers a pass (default from watch.debounce, 500ms)")

	return cobraCmd
}

// Run executes the watch command
func (c *WatchCommand) Run(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, c.fs, c.loaderOpts)
	if err != nil {
		return err
	}

	runner := s.runner(c.fs)
	sync := func(ctx context.Context) error {
		pass, runErr := runner.Run(ctx)
		if pass == nil {
			return runErr
		}
		if err := s.print(pass); err != nil {
			return err
		}
		return runErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pass, err := runner.Run(ctx)
	if pass == nil {
		return fmt.Errorf("failed to synchronize: %w", err)
	}
	if err := s.print(pass); err != nil {
		return err
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("initial pass failed")
	}

	debounce := s.settings.WatchDebounce
	if flagValue, _ := cmd.Flags().GetDuration("debounce"); flagValue > 0 {
		debounce = flagValue
	}

	w, err := watch.New(pass.Root, watch.WithDebounce(debounce), watch.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.logger.Info().Str("root", pass.Root).Dur("debounce", debounce).Msg("watching for composer changes")
	if err := w.Run(ctx, sync); err != nil {
		return fmt.Errorf("failed to watch %s: %w", pass.Root, err)
	}
	return nil
}
