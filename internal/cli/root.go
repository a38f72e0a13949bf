package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/alexanderramin/estudio/internal/llm"
	"github.com/alexanderramin/estudio/internal/metrics"
	"github.com/alexanderramin/estudio/internal/service"
)

// App holds the services the commands run against.
type App struct {
	Auth         service.AuthService
	Admin        service.AdminService
	Calendar     service.CalendarService
	Collaborator intelligence.Collaborator
	Session      *service.SessionFile

	LLM       llm.LLMClient
	LLMConfig llm.LLMConfig
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	ServerAddr  string
	CORSOrigins []string

	// ExportDir is where the studio writes exported content.
	ExportDir string

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

var errNotLoggedIn = errors.New("nenhuma sessão ativa; entre com `estudio auth login`")

// currentUser resolves the stored session token.
func (a *App) currentUser(ctx context.Context) (*domain.User, error) {
	token, err := a.Session.Load()
	if errors.Is(err, service.ErrNoSession) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	u, err := a.Auth.Authenticate(ctx, token)
	if errors.Is(err, service.ErrInvalidToken) {
		return nil, fmt.Errorf("sessão expirada: %w", errNotLoggedIn)
	}
	return u, err
}

// NewRootCmd creates the top-level "estudio" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "estudio",
		Short:         "Planejamento de conteúdo e estúdio de escrita com IA",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAuthCmd(app),
		newCalendarCmd(app),
		newAgendaCmd(app),
		newPlanCmd(app),
		newAdminCmd(app),
		newStatusCmd(app),
		newServeCmd(app),
		newConvertCmd(app),
	)
	return root
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
