package syncs

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
)

type WatchCmd struct {
	Schedule string `help:"Cron schedule for sync passes. Overrides sync_schedule."`
	Tasks    string `help:"Task list file (JSON or YAML). Overrides tasks_file."`
	Sessions string `help:"Pomodoro session file (JSON or YAML). Overrides sessions_file."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(runCtx, ctx)
}

func (c *WatchCmd) schedule(ctx *cli.Context) string {
	if c.Schedule != "" {
		return c.Schedule
	}
	if ctx.Config != nil && ctx.Config.SyncSchedule != "" {
		return ctx.Config.SyncSchedule
	}
	return constants.DefaultSyncPattern
}

// watch runs one pass immediately, then on every tick until runCtx is done
func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context) error {
	syncer, err := ctx.NewSyncer(c.Tasks, c.Sessions)
	if err != nil {
		return err
	}
	spec := c.schedule(ctx)
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	pass := func() {
		if err := ctx.ReloadStore(); err != nil {
			logger.Error("Failed to reload store before sync", "error", err)
			fmt.Fprintf(os.Stderr, "Sync skipped: %v\n", err)
			return
		}
		res, err := syncer.Run(runCtx)
		if err != nil {
			if runCtx.Err() == nil {
				logger.Error("Scheduled sync failed", "error", err)
				fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
			}
			return
		}
		if res.Tasks.Mutations()+res.Sessions.Mutations() > 0 {
			printResult(ctx.Out(), syncer, res)
		}
	}

	cronLog := cron.PrintfLogger(logger.Printf{})
	scheduler := cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))
	if _, err := scheduler.AddFunc(spec, pass); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	if ctx.Provider != nil {
		if _, err := os.Stat(ctx.Provider.GetConfigPath()); err == nil {
			release, err := cli.AcquireWatchLock(ctx.Provider.GetConfigPath())
			if err != nil {
				return err
			}
			defer release()
		}
	}

	fmt.Fprintf(ctx.Out(), "Watching for changes (schedule %q). Press Ctrl+C to stop.\n", spec)
	pass()

	scheduler.Start()
	<-runCtx.Done()

	logger.Info("Stopping watch")
	done := scheduler.Stop()
	timeout, cancel := context.WithTimeout(context.Background(), constants.WatchShutdownTimeout)
	defer cancel()
	select {
	case <-done.Done():
	case <-timeout.Done():
		logger.Warn("Timed out waiting for running sync to finish")
	}
	return nil
}
