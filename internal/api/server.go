// Package api exposes the pipeline over HTTP: investor CRUD-lite, match
// runs, outreach generation, interactions, stats, and export.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/outreach"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
)

// Server holds the dependencies the HTTP handlers need. Generator may be
// nil when no API key is configured; outreach endpoints then return 503.
type Server struct {
	store     store.Store
	engine    *match.Engine
	generator *outreach.Generator
	profile   *model.Profile
}

// NewServer wires a Server.
func NewServer(st store.Store, engine *match.Engine, gen *outreach.Generator, profile *model.Profile) *Server {
	return &Server{store: st, engine: engine, generator: gen, profile: profile}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/investors", s.handleListInvestors)
		r.Get("/investors/{id}", s.handleGetInvestor)
		r.Post("/investors/{id}/status", s.handleUpdateStatus)
		r.Post("/investors/{id}/generate/{type}", s.handleGenerate)
		r.Get("/investors/{id}/interactions", s.handleListInteractions)
		r.Post("/match", s.handleMatch)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListInvestors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.InvestorFilter{
		Status: model.InvestorStatus(q.Get("status")),
		Type:   model.InvestorType(q.Get("type")),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_score must be an integer")
			return
		}
		filter.MinScore = n
	}

	investors, err := s.store.ListInvestors(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list investors", err)
		return
	}
	if investors == nil {
		investors = []model.Investor{}
	}
	writeJSON(w, http.StatusOK, investors)
}

// handleGetInvestor returns the investor with a fresh match result attached.
func (s *Server) handleGetInvestor(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.lookupInvestor(w, r)
	if !ok {
		return
	}
	res := s.engine.Score(inv, s.profile)
	writeJSON(w, http.StatusOK, map[string]any{
		"investor": inv,
		"match":    res,
	})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.InvestorStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, http.StatusNotFound, "investor not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "outreach generation is not configured")
		return
	}

	inv, ok := s.lookupInvestor(w, r)
	if !ok {
		return
	}

	var out *outreach.Generated
	var err error
	switch outreach.Type(chi.URLParam(r, "type")) {
	case outreach.TypeColdEmail:
		out, err = s.generator.ColdEmail(r.Context(), inv)
	case outreach.TypeTwitterDM:
		out, err = s.generator.TwitterDM(r.Context(), inv)
	case outreach.TypeTalkingPoints:
		out, err = s.generator.TalkingPoints(r.Context(), inv)
	default:
		writeError(w, http.StatusBadRequest, "unknown outreach type")
		return
	}
	if err != nil {
		s.internalError(w, "generate outreach", err)
		return
	}

	if _, err := s.generator.SaveReport(out); err != nil {
		zap.L().Warn("report save failed", zap.Error(err))
	}
	if err := s.generator.RecordInteraction(r.Context(), out, inv.ID); err != nil {
		zap.L().Warn("interaction record failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.store.ListInteractions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.internalError(w, "list interactions", err)
		return
	}
	if interactions == nil {
		interactions = []model.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	results, report, err := match.NewRanker(s.engine, s.store).RunAndPersist(r.Context(), s.profile)
	if err != nil {
		s.internalError(w, "run matching", err)
		return
	}

	topScore := 0
	if len(results) > 0 {
		topScore = results[0].Score
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matched":   report.Scored,
		"persisted": report.Persisted,
		"failed":    report.Failed,
		"top_score": topScore,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByStatus(r.Context())
	if err != nil {
		s.internalError(w, "count by status", err)
		return
	}
	outreachStats, err := s.store.OutreachStats(r.Context())
	if err != nil {
		s.internalError(w, "outreach stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status_counts":  counts,
		"outreach_stats": outreachStats,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	investors, err := s.store.ListInvestors(r.Context(), store.InvestorFilter{})
	if err != nil {
		s.internalError(w, "export investors", err)
		return
	}
	if investors == nil {
		investors = []model.Investor{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=investors-export.json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(investors)
}

func (s *Server) lookupInvestor(w http.ResponseWriter, r *http.Request) (*model.Investor, bool) {
	inv, err := s.store.GetInvestor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "investor not found")
		return nil, false
	}
	return inv, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
