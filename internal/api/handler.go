// Package api provides HTTP handlers for the course tracker API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/origincode/arcmugbot/internal/courses"
	"github.com/origincode/arcmugbot/internal/domain"
	"github.com/origincode/arcmugbot/internal/identity"
	"github.com/origincode/arcmugbot/internal/store"
)

// Handler serves the typed command surface over HTTP.
type Handler struct {
	svc *courses.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *courses.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the course endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/calc", h.Calc)
		r.Get("/passed", h.Passed)
		r.Route("/courses/{level}", func(r chi.Router) {
			r.Get("/", h.Query)
			r.Get("/rank", h.Rank)
			r.Get("/score", h.Score)
			r.Post("/submit", h.Submit)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// respondError maps domain outcomes onto distinct statuses so the
// presentation layer can render distinct texts: invalid level and
// missing record are normal rejections, not server faults.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidLevel):
		Error(w, http.StatusBadRequest, "invalid course level")
	case errors.Is(err, store.ErrNotFound):
		Error(w, http.StatusNotFound, "record does not exist")
	case errors.Is(err, identity.ErrMissingUser):
		Error(w, http.StatusUnauthorized, "missing player identity")
	default:
		slog.Error("Request failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func levelParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "level")
	level, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, raw)
	}
	return level, nil
}

func validateResults(results []domain.Triple) error {
	for i, t := range results {
		if t.Great < 0 || t.Good < 0 || t.Miss < 0 {
			return fmt.Errorf("result %d has negative judgment counts", i+1)
		}
	}
	return nil
}

func validateRule(rule *domain.Rule) error {
	if rule == nil {
		return nil
	}
	if rule.Great <= 0 || rule.Good <= 0 || rule.Miss <= 0 {
		return errors.New("rule weights must be positive")
	}
	return nil
}

type submitRequest struct {
	Results []domain.Triple `json:"results"`
	Rule    *domain.Rule    `json:"rule,omitempty"`
}

type recordResponse struct {
	Course       string `json:"course"`
	StartingLife int    `json:"starting_life"`
	Life         int    `json:"life"`
	Status       string `json:"status"`
}

// Submit handles POST /api/courses/{level}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, fullname, err := identity.Require(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	level, err := levelParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateResults(req.Results); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRule(req.Rule); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Submit(r.Context(), userID, fullname, level, req.Rule, req.Results)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("Submission accepted", "user_id", userID, "level", level,
		"life", res.Record.Life, "status", res.Record.Status.String())

	JSON(w, http.StatusOK, recordResponse{
		Course:       res.Course,
		StartingLife: res.StartingLife,
		Life:         res.Record.Life,
		Status:       res.Record.Status.String(),
	})
}

type calcRequest struct {
	Life    int             `json:"life"`
	Heal    int             `json:"heal"`
	Results []domain.Triple `json:"results"`
	Rule    *domain.Rule    `json:"rule,omitempty"`
}

type calcResponse struct {
	Life   int    `json:"life"`
	Status string `json:"status"`
}

// Calc handles POST /api/calc. Pure calculation, nothing stored.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Life < 0 || req.Heal < 0 {
		Error(w, http.StatusBadRequest, "life and heal must be non-negative")
		return
	}
	if err := validateResults(req.Results); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRule(req.Rule); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	life, status := h.svc.Calc(req.Life, req.Heal, req.Rule, req.Results)
	JSON(w, http.StatusOK, calcResponse{Life: life, Status: status.String()})
}

// Score handles GET /api/courses/{level}/score.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity.Require(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	level, err := levelParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	res, err := h.svc.Score(r.Context(), userID, level)
	if err != nil {
		respondError(w, err)
		return
	}

	JSON(w, http.StatusOK, recordResponse{
		Course:       res.Course,
		StartingLife: res.StartingLife,
		Life:         res.Record.Life,
		Status:       res.Record.Status.String(),
	})
}

type songResponse struct {
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Level      string `json:"level"`
}

type courseResponse struct {
	Name  string         `json:"name"`
	Life  int            `json:"life"`
	Heal  int            `json:"heal"`
	Songs []songResponse `json:"songs"`
}

// Query handles GET /api/courses/{level}. Catalog only.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	course, err := h.svc.Query(level)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := courseResponse{
		Name:  course.Name,
		Life:  course.Life,
		Heal:  course.Heal,
		Songs: make([]songResponse, 0, len(course.Songs)),
	}
	for _, s := range course.Songs {
		resp.Songs = append(resp.Songs, songResponse{
			Title:      s.Title,
			Difficulty: s.Difficulty.String(),
			Level:      s.Level,
		})
	}
	JSON(w, http.StatusOK, resp)
}

type rankResponse struct {
	Course  string          `json:"course"`
	Entries []rankEntryItem `json:"entries"`
}

type rankEntryItem struct {
	Rank     int    `json:"rank"`
	Fullname string `json:"fullname"`
	Life     int    `json:"life"`
}

// Rank handles GET /api/courses/{level}/rank. An empty entry list is a
// valid "no record yet" response, served with status 200.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	res, err := h.svc.Rank(r.Context(), level)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := rankResponse{Course: res.Course, Entries: make([]rankEntryItem, 0, len(res.Entries))}
	for i, e := range res.Entries {
		resp.Entries = append(resp.Entries, rankEntryItem{
			Rank:     i + 1,
			Fullname: e.Fullname,
			Life:     e.Life,
		})
	}
	JSON(w, http.StatusOK, resp)
}

type passedResponse struct {
	Players []passedPlayer `json:"players"`
}

type passedPlayer struct {
	Fullname string   `json:"fullname"`
	Courses  []string `json:"courses"`
}

// Passed handles GET /api/passed.
func (h *Handler) Passed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Passed(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := passedResponse{Players: make([]passedPlayer, 0, len(entries))}
	for _, e := range entries {
		resp.Players = append(resp.Players, passedPlayer{Fullname: e.Fullname, Courses: e.Courses})
	}
	JSON(w, http.StatusOK, resp)
}
