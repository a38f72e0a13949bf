package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/export"
)

func newConvertCmd(app *App) *cobra.Command {
	var format, output, title string
	cmd := &cobra.Command{
		Use:   "convert [arquivo.md]",
		Short: "Converter um texto em markdown para txt ou html",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			var src []byte
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			meta, body, err := export.ReadFrontMatter(src)
			if err != nil {
				return err
			}
			s, content := meta.Strategy(), meta.Content(body)
			if title != "" {
				s.Topic = title
			}

			rendered, err := export.Render(f, s, content)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = out(cmd).Write(rendered)
				return err
			}
			if err := os.WriteFile(output, rendered, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Gravado em %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatHTML), "Formato: "+strings.Join(formatNames(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Arquivo de saída (padrão: stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Título do documento")
	return cmd
}

func formatNames() []string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return names
}
