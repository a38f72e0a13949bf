package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
	"github.com/alexanderramin/estudio/internal/domain"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Consultar e organizar o calendário de conteúdo",
	}
	cmd.AddCommand(
		newCalendarListCmd(app),
		newCalendarMonthCmd(app),
		newCalendarStatsCmd(app),
		newCalendarShowCmd(app),
		newCalendarStatusCmd(app),
		newCalendarRemoveCmd(app),
	)
	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	var term, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar entradas, com busca por tema e filtro de status",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			var st domain.ContentStatus
			if status != "" {
				if st, err = domain.ParseContentStatus(status); err != nil {
					return err
				}
			}
			entries, err := app.Calendar.Search(cmd.Context(), u.ID, term, st)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatEntries(entries, app.now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "search", "q", "", "Buscar em tema e assunto")
	cmd.Flags().StringVar(&status, "status", "", "idea, planned, writing, review ou published")
	return cmd
}

func newCalendarMonthCmd(app *App) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Mostrar a grade do mês",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			ref := app.now()
			if month != "" {
				if ref, err = time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("mês inválido %q, use AAAA-MM", month)
				}
			}
			entries, err := app.Calendar.Month(cmd.Context(), u.ID, ref.Year(), ref.Month())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatMonth(ref.Year(), ref.Month(), entries, domain.DayOf(app.now())))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Mês no formato AAAA-MM (padrão: mês atual)")
	return cmd
}

func newCalendarStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Resumo do calendário",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := app.Calendar.Stats(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatStats(stats))
			return nil
		},
	}
}

func newCalendarShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Mostrar uma entrada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			e, err := app.Calendar.Get(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatEntry(e))
			return nil
		},
	}
}

func newCalendarStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Mudar o status de uma entrada",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			st, err := domain.ParseContentStatus(args[1])
			if err != nil {
				return err
			}
			if err := app.Calendar.UpdateStatus(cmd.Context(), u.ID, args[0], st); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Status atualizado: %s\n", formatter.StatusBadge(st))
			return nil
		},
	}
}

func newCalendarRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remover uma entrada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			e, err := app.Calendar.Get(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return errors.New("use --yes para remover fora de um terminal")
				}
				ok, err := confirm(fmt.Sprintf("Remover %q de %s?", e.Topic, e.DateKey()))
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Calendar.Remove(cmd.Context(), u.ID, e.ID); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removida: %s\n", e.Topic)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Não pedir confirmação")
	return cmd
}
