package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
)

func newAgendaCmd(app *App) *cobra.Command {
	var topic, subject, expertise string
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Rascunhar a pauta detalhada de um tema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" || strings.TrimSpace(subject) == "" {
				return errors.New("--topic e --subject são obrigatórios")
			}
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.interactive(), "Rascunhando pauta...")
			res := app.Collaborator.DetailedAgenda(cmd.Context(), topic, subject, expertise)
			stop()

			fmt.Fprintln(out(cmd), res.Value)
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.SourceBadge(res.UsedFallback()))
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Tema")
	cmd.Flags().StringVar(&subject, "subject", "", "Assunto")
	cmd.Flags().StringVar(&expertise, "expertise", "", "Especialidade do autor")
	return cmd
}
