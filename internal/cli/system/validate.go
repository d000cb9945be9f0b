package system

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/sources"
	"github.com/julianstephens/studylit/internal/validation"
)

type ValidateCmd struct {
	Tasks string `help:"Task list file to check task links against. Overrides tasks_file."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	out := ctx.Out()

	tasks, err := c.loadTasks(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Validating events...")
	if tasks == nil {
		fmt.Fprintln(out, "No task list configured; skipping orphaned link check.")
	}
	result := validation.Validate(ctx.Store.List(), tasks)

	fmt.Fprintln(out)
	fmt.Fprintln(out, result.FormatReport())
	return nil
}

// loadTasks returns nil when no task file is configured
func (c *ValidateCmd) loadTasks(ctx *cli.Context) ([]models.Task, error) {
	path := c.Tasks
	if path == "" && ctx.Config != nil {
		path = ctx.Config.TasksFile
	}
	if path == "" {
		return nil, nil
	}
	src, err := sources.NewTaskFile(path)
	if err != nil {
		return nil, err
	}
	tasks, err := src.Tasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
