package agenda

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/tui"
)

type BrowseCmd struct{}

func (c *BrowseCmd) Run(ctx *cli.Context) error {
	m, err := tui.NewModel(ctx.Store, ctx.Location(), time.Now)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("calendar browser: %w", err)
	}
	return nil
}
