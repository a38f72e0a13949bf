package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
	"github.com/alexanderramin/estudio/internal/domain"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Gerenciar usuários (somente administradores)",
	}
	cmd.AddCommand(newAdminUsersCmd(app), newAdminRoleCmd(app), newAdminRemoveCmd(app))
	return cmd
}

func newAdminUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Listar usuários",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			users, err := app.Admin.ListUsers(cmd.Context(), actor)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatUsers(users))
			return nil
		},
	}
}

func newAdminRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role <user-id> <admin|user>",
		Short: "Mudar o papel de um usuário",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			role, err := domain.ParseRole(args[1])
			if err != nil {
				return err
			}
			if err := app.Admin.SetRole(cmd.Context(), actor, args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Papel de %s: %s\n", args[0], role)
			return nil
		},
	}
}

func newAdminRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <user-id>",
		Short: "Remover um usuário e o calendário dele",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return errors.New("use --yes para remover fora de um terminal")
				}
				ok, err := confirm("Remover o usuário " + args[0] + "?")
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Admin.RemoveUser(cmd.Context(), actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Usuário removido: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Não pedir confirmação")
	return cmd
}
