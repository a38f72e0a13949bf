package cli

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/domain"
)

func newPlanCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"studio"},
		Short:   "Abrir o estúdio interativo de planejamento e escrita",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("o estúdio precisa de um terminal interativo")
			}
			var day time.Time
			if date != "" {
				d, err := domain.ParseDay(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				day = d
			}
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			m := newStudioModel(cmd.Context(), app, newStudioController(app), *u)
			if !day.IsZero() {
				m = m.openingDay(day)
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "abrir direto no dia (YYYY-MM-DD)")
	return cmd
}
