package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
)

// Collaborator endpoints answer 200 whenever the request is well formed: a
// failed model call is replaced by its fallback and flagged in SourceHeader.

type strategyRequest struct {
	Strategy    strategyDTO      `json:"strategy"`
	Level       string           `json:"level"`
	ChatHistory []chatMessageDTO `json:"chatHistory"`
}

func (s *Server) bindStrategy(c *gin.Context) (strategyRequest, domain.Strategy, []domain.ChatMessage, bool) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return req, domain.Strategy{}, nil, false
	}
	st, err := req.Strategy.toDomain()
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return req, st, nil, false
	}
	history, err := toHistory(req.ChatHistory)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return req, st, nil, false
	}
	return req, st, history, true
}

func respond[T any](c *gin.Context, out intelligence.Outcome[T], body gin.H) {
	c.Header(SourceHeader, string(out.Source))
	if out.UsedFallback() {
		body["fallback"] = true
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) detailedAgenda(c *gin.Context) {
	var req struct {
		Topic     string `json:"topic"`
		Subject   string `json:"subject"`
		Expertise string `json:"expertise"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	out := s.collab.DetailedAgenda(c.Request.Context(), req.Topic, req.Subject, req.Expertise)
	respond(c, out, gin.H{"text": out.Value})
}

func (s *Server) subTopics(c *gin.Context) {
	_, st, _, ok := s.bindStrategy(c)
	if !ok {
		return
	}
	out := s.collab.SubTopics(c.Request.Context(), st)
	respond(c, out, gin.H{"subTopics": out.Value})
}

func (s *Server) complexityApproach(c *gin.Context) {
	req, st, _, ok := s.bindStrategy(c)
	if !ok {
		return
	}
	level, err := domain.ParseComplexityLevel(req.Level)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	out := s.collab.Approach(c.Request.Context(), st, level)
	respond(c, out, gin.H{"text": out.Value})
}

func (s *Server) initialQuestion(c *gin.Context) {
	_, st, _, ok := s.bindStrategy(c)
	if !ok {
		return
	}
	out := s.collab.InitialQuestion(c.Request.Context(), st)
	respond(c, out, gin.H{"text": out.Value})
}

func (s *Server) analyzeBriefing(c *gin.Context) {
	_, st, history, ok := s.bindStrategy(c)
	if !ok {
		return
	}
	out := s.collab.AnalyzeBriefing(c.Request.Context(), st, history)
	respond(c, out, gin.H{
		"isReadyToGenerate": out.Value.Ready,
		"questionToUser":    out.Value.Question,
		"summary":           out.Value.Summary,
	})
}

func (s *Server) finalContent(c *gin.Context) {
	_, st, history, ok := s.bindStrategy(c)
	if !ok {
		return
	}
	out := s.collab.FinalContent(c.Request.Context(), st, history)
	cites := make([]gin.H, 0, len(out.Value.Citations))
	for _, ct := range out.Value.Citations {
		cites = append(cites, gin.H{"title": ct.Title, "url": ct.URL})
	}
	respond(c, out, gin.H{"text": out.Value.Text, "citations": cites})
}

func (s *Server) refineContent(c *gin.Context) {
	var req struct {
		CurrentContent string `json:"currentContent"`
		Instruction    string `json:"instruction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	out := s.collab.Refine(c.Request.Context(), req.CurrentContent, req.Instruction)
	respond(c, out, gin.H{"text": out.Value})
}
