package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mostrar sessão, modelo e resumo do calendário",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b strings.Builder
			b.WriteString(formatter.Header("estudio") + "\n\n")

			cfg := app.LLMConfig
			switch {
			case !cfg.Enabled:
				b.WriteString("Modelo:  " + formatter.Dim("desativado, usando textos de contingência") + "\n")
			case app.LLM != nil && app.LLM.Available(cmd.Context()):
				fmt.Fprintf(&b, "Modelo:  %s %s %s\n", cfg.Provider, cfg.Model, formatter.StyleGreen.Render("disponível"))
			default:
				fmt.Fprintf(&b, "Modelo:  %s %s %s\n", cfg.Provider, cfg.Model, formatter.StyleRed.Render("indisponível"))
			}

			u, err := app.currentUser(cmd.Context())
			if err != nil {
				b.WriteString("Sessão:  " + formatter.Dim("nenhuma") + "\n")
				fmt.Fprint(out(cmd), b.String())
				return nil
			}
			fmt.Fprintf(&b, "Sessão:  %s <%s>\n\n", formatter.Bold(u.Name), u.Email)

			stats, err := app.Calendar.Stats(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			b.WriteString(formatter.FormatStats(stats) + "\n")
			fmt.Fprint(out(cmd), b.String())
			return nil
		},
	}
}
