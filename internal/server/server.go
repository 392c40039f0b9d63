// Package server exposes the tracker over HTTP+JSON: roster management,
// manual sync runs and per-class performance reports.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/service"
	"mixes-tracker/internal/steamid"
)

type Server struct {
	roster  *service.RosterService
	reports *service.ReportService
	syncSvc *service.SyncService
	logger  zerolog.Logger
}

func New(roster *service.RosterService, reports *service.ReportService, syncSvc *service.SyncService, logger zerolog.Logger) *Server {
	return &Server{roster: roster, reports: reports, syncSvc: syncSvc, logger: logger}
}

// Routes builds the request mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", s.handleAddUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleRemoveUser)
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /players/{id}/classes/{class}/performance", s.handleClassPerformance)
	return mux
}

type addUserRequest struct {
	SteamID   string `json:"steam_id"`
	DiscordID uint64 `json:"discord_id"`
}

type addUserResponse struct {
	SteamID string `json:"steam_id"`
	Added   bool   `json:"added"`
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SteamID == "" || req.DiscordID == 0 {
		writeError(w, http.StatusBadRequest, "steam_id and discord_id are required")
		return
	}

	id, added, err := s.roster.AddUser(r.Context(), req.SteamID, req.DiscordID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusConflict
	}
	writeJSON(w, status, addUserResponse{SteamID: id.ID64String(), Added: added})
}

func (s *Server) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	removed, err := s.roster.RemoveUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "user is not tracked")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncSvc.Run(r.Context())
	if err != nil {
		// The run may have persisted some logs before aborting; report what
		// happened along with the failure.
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClassPerformance(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	report, err := s.reports.ClassPerformance(r.Context(), r.PathValue("id"), r.PathValue("class"), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if report == nil {
		report = []domain.ClassPerformance{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"performances": report})
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *steamid.ParseError
	var classErr *class.UnknownClassError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &classErr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
