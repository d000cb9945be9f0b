package syncs

import (
	"context"
	"fmt"
	"io"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/logger"
)

type SyncCmd struct {
	Tasks    string `help:"Task list file (JSON or YAML). Overrides tasks_file."`
	Sessions string `help:"Pomodoro session file (JSON or YAML). Overrides sessions_file."`
}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	syncer, err := ctx.NewSyncer(c.Tasks, c.Sessions)
	if err != nil {
		return err
	}

	res, err := syncer.Run(context.Background())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	printResult(ctx.Out(), syncer, res)
	return nil
}

func printResult(out io.Writer, syncer *calendar.Syncer, res calendar.SyncResult) {
	if syncer.Tasks != nil {
		fmt.Fprintf(out, "Tasks:    %s\n", res.Tasks)
	}
	if syncer.Sessions != nil {
		fmt.Fprintf(out, "Sessions: %s\n", res.Sessions)
	}
	if res.Tasks.Skipped+res.Sessions.Skipped > 0 {
		fmt.Fprintln(out, "Some records were skipped because of unparsable timestamps; see the log for details.")
	}
	logger.Debug("Sync finished", "tasks", res.Tasks.String(), "sessions", res.Sessions.String())
}
