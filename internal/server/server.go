// Package server is the thin HTTP surface over the engine. It owns request
// decoding and status codes only; all behavior lives below it.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trade-report-engine/internal/engine"
	"trade-report-engine/internal/interfaces"
	"trade-report-engine/internal/store"
	"trade-report-engine/internal/types"
)

type Server struct {
	eng     *engine.Engine
	reports interfaces.ReportStore
}

func New(eng *engine.Engine, reports interfaces.ReportStore) *Server {
	return &Server{eng: eng, reports: reports}
}

// Router builds the gin engine with CORS and all routes registered.
func (s *Server) Router(cfg *store.Config) *gin.Engine {
	r := gin.Default()

	origins := cfg.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	{
		api.POST("/reports/daily", s.ingestDaily)
		api.POST("/reports/weekly", s.ingestWeekly)
		api.GET("/reports/daily/:date", s.getDaily)
		api.GET("/reports/weekly/:start", s.getWeekly)

		api.POST("/scores/day/:date", s.scoreDay)
		api.GET("/scores/day/:date", s.getDayScore)
		api.POST("/scores/week/:start", s.scoreWeek)
		api.GET("/scores/week/:start", s.getWeekScore)
	}
	return r
}

type ingestRequest struct {
	Date string `json:"date" binding:"required"`
	Text string `json:"text" binding:"required"`
}

func (s *Server) ingestDaily(c *gin.Context) {
	s.ingest(c, types.KindDaily)
}

func (s *Server) ingestWeekly(c *gin.Context) {
	s.ingest(c, types.KindWeekly)
}

func (s *Server) ingest(c *gin.Context, kind types.ReportKind) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	raw := types.RawReport{Text: req.Text, Date: date, Kind: kind}
	var res *engine.IngestResult
	if kind == types.KindDaily {
		res, err = s.eng.IngestDaily(c.Request.Context(), raw)
	} else {
		res, err = s.eng.IngestWeekly(c.Request.Context(), raw)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !res.Accepted {
		// The caller sees the exact missing fields so the source document
		// can be corrected and resubmitted.
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) getDaily(c *gin.Context) {
	date, ok := pathDate(c, "date")
	if !ok {
		return
	}
	record, warnings, err := s.reports.GetDaily(c.Request.Context(), date)
	if respondLookupErr(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record, "warnings": warnings})
}

func (s *Server) getWeekly(c *gin.Context) {
	start, ok := pathDate(c, "start")
	if !ok {
		return
	}
	record, warnings, err := s.reports.GetWeekly(c.Request.Context(), start)
	if respondLookupErr(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record, "warnings": warnings})
}

func (s *Server) scoreDay(c *gin.Context) {
	date, ok := pathDate(c, "date")
	if !ok {
		return
	}
	da, err := s.eng.ScoreDay(c.Request.Context(), date)
	if err != nil {
		var nf *interfaces.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, da)
}

func (s *Server) getDayScore(c *gin.Context) {
	date, ok := pathDate(c, "date")
	if !ok {
		return
	}
	da, err := s.reports.GetDayScore(c.Request.Context(), date)
	if respondLookupErr(c, err) {
		return
	}
	c.JSON(http.StatusOK, da)
}

func (s *Server) scoreWeek(c *gin.Context) {
	start, ok := pathDate(c, "start")
	if !ok {
		return
	}
	card, err := s.eng.ScoreWeek(c.Request.Context(), start)
	if respondLookupErr(c, err) {
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) getWeekScore(c *gin.Context) {
	start, ok := pathDate(c, "start")
	if !ok {
		return
	}
	card, err := s.reports.GetWeekScore(c.Request.Context(), "Week of "+start.Format("2006-01-02"))
	if respondLookupErr(c, err) {
		return
	}
	c.JSON(http.StatusOK, card)
}

func pathDate(c *gin.Context, param string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": param + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func respondLookupErr(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var nf *interfaces.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return true
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	return true
}
