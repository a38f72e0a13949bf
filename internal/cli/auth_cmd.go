package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Conta e sessão",
	}
	cmd.AddCommand(newRegisterCmd(app), newLoginCmd(app), newLogoutCmd(app), newWhoamiCmd(app))
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Criar uma conta (a primeira conta é administradora)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && (name == "" || email == "" || password == "") {
				if name == "" {
					if err := runForm(newNameInput(&name)); err != nil {
						return err
					}
				}
				if err := askCredentials(&email, &password); err != nil {
					return err
				}
			}
			u, err := app.Auth.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Conta criada para %s (%s).\n", formatter.Bold(u.Name), u.Role)
			return login(cmd, app, email, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Nome")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&password, "password", "", "Senha (evite em scripts compartilhados)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entrar e guardar a sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				if err := askCredentials(&email, &password); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return errors.New("--email e --password são obrigatórios fora de um terminal")
			}
			return login(cmd, app, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&password, "password", "", "Senha")
	return cmd
}

func login(cmd *cobra.Command, app *App, email, password string) error {
	sess, err := app.Auth.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if err := app.Session.Save(sess.Token); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Olá, %s. Sessão válida até %s.\n",
		formatter.Bold(sess.User.Name), sess.ExpiresAt.Format("2006-01-02 15:04"))
	return nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerrar a sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Sessão encerrada.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar o usuário da sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s <%s> %s\n", formatter.Bold(u.Name), u.Email, formatter.Dim(string(u.Role)))
			return nil
		},
	}
}
