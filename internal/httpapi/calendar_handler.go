package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/service"
)

func entriesFrom(in []domain.CalendarEntry) []entryDTO {
	out := make([]entryDTO, 0, len(in))
	for _, e := range in {
		out = append(out, entryFrom(e))
	}
	return out
}

// listCalendar returns the whole calendar, or the entries matching the q and
// status query parameters when either is set.
func (s *Server) listCalendar(c *gin.Context) {
	u := currentUser(c)
	ctx := c.Request.Context()

	var (
		entries []domain.CalendarEntry
		err     error
	)
	term, status := c.Query("q"), c.Query("status")
	if term == "" && status == "" {
		entries, err = s.calendar.Entries(ctx, u.ID)
	} else {
		var st domain.ContentStatus
		if status != "" {
			if st, err = domain.ParseContentStatus(status); err != nil {
				abort(c, http.StatusBadRequest, err.Error())
				return
			}
		}
		entries, err = s.calendar.Search(ctx, u.ID, term, st)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entriesFrom(entries)})
}

func (s *Server) replaceCalendar(c *gin.Context) {
	var req struct {
		Entries []entryDTO `json:"entries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	u := currentUser(c)
	entries := make([]domain.CalendarEntry, 0, len(req.Entries))
	for i, d := range req.Entries {
		e, err := d.toDomain(u.ID)
		if err != nil {
			abort(c, http.StatusBadRequest, fmt.Sprintf("entries[%d]: %v", i, err))
			return
		}
		entries = append(entries, e)
	}
	if err := s.calendar.ReplaceAll(c.Request.Context(), u.ID, entries); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) calendarStats(c *gin.Context) {
	stats, err := s.calendar.Stats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":      stats.Total,
		"ideas":      stats.Ideas,
		"inProgress": stats.InProgress,
		"published":  stats.Published,
		"overdue":    stats.Overdue,
	})
}

// saveStrategy upserts a strategy by id and reports a same-subject entry on
// another day, if any.
func (s *Server) saveStrategy(c *gin.Context) {
	var req struct {
		Strategy strategyDTO `json:"strategy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	st, err := req.Strategy.toDomain()
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	u := currentUser(c)
	ctx := c.Request.Context()
	saved, err := s.calendar.SaveStrategy(ctx, u.ID, st)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := gin.H{"entry": entryFrom(saved.ToEntry(u.ID))}
	dup, err := s.calendar.CheckDuplicate(ctx, u.ID, saved.Subject, saved.Topic, saved.ID)
	if err != nil {
		s.log.Warn("duplicate check", "err", err)
	} else if dup != nil {
		resp["duplicate"] = entryFrom(*dup)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) updateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	st, err := domain.ParseContentStatus(req.Status)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}
	if err := s.calendar.UpdateStatus(c.Request.Context(), currentUser(c).ID, c.Param("id"), st); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) removeEntry(c *gin.Context) {
	if err := s.calendar.Remove(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
