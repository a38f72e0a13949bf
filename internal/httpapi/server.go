// Package httpapi exposes the studio's collaborator operations, accounts and
// calendar over a JSON API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/alexanderramin/estudio/internal/metrics"
	"github.com/alexanderramin/estudio/internal/service"
)

// SourceHeader tells the client whether a collaborator response came from the
// model or from a fallback.
const SourceHeader = "X-Estudio-Source"

type Deps struct {
	Auth         service.AuthService
	Admin        service.AdminService
	Calendar     service.CalendarService
	Collaborator intelligence.Collaborator
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	HasKey       bool
	CORSOrigins  []string

	// Probe reports whether the generative backend answers.
	Probe func(ctx context.Context) bool
}

type Server struct {
	auth     service.AuthService
	admin    service.AdminService
	calendar service.CalendarService
	collab   intelligence.Collaborator
	metrics  *metrics.Metrics
	log      *slog.Logger
	probe    func(ctx context.Context) bool
	hasKey   bool
	engine   *gin.Engine
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Probe == nil {
		d.Probe = func(context.Context) bool { return false }
	}
	s := &Server{
		auth:     d.Auth,
		admin:    d.Admin,
		calendar: d.Calendar,
		collab:   d.Collaborator,
		metrics:  d.Metrics,
		log:      d.Logger,
		probe:    d.Probe,
		hasKey:   d.HasKey,
	}
	s.engine = s.routes(d.CORSOrigins)
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), corsMiddleware(origins))

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/status", s.status)
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.authenticate())
	authed.GET("/auth/me", s.me)

	authed.GET("/calendar", s.listCalendar)
	authed.PUT("/calendar", s.replaceCalendar)
	authed.GET("/calendar/stats", s.calendarStats)
	authed.POST("/calendar/strategy", s.saveStrategy)
	authed.PATCH("/calendar/:id/status", s.updateStatus)
	authed.DELETE("/calendar/:id", s.removeEntry)

	admin := authed.Group("/admin", requireAdmin())
	admin.GET("/users", s.listUsers)
	admin.PATCH("/users", s.setRole)
	admin.DELETE("/users", s.removeUser)

	authed.POST("/generateDetailedAgenda", s.detailedAgenda)
	authed.POST("/generateSubTopics", s.subTopics)
	authed.POST("/generateComplexityApproach", s.complexityApproach)
	authed.POST("/generateInitialQuestion", s.initialQuestion)
	authed.POST("/analyzeBriefingState", s.analyzeBriefing)
	authed.POST("/generateFinalContent", s.finalContent)
	authed.POST("/refineContent", s.refineContent)

	return r
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"hasKey":    s.hasKey,
		"available": s.probe(c.Request.Context()),
	})
}
