package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/internal/service"
)

type analyzeRequest struct {
	CompanyName string          `json:"company_name"`
	Options     json.RawMessage `json:"options"`
}

type analyzeResponse struct {
	SessionID            string `json:"session_id"`
	Status               string `json:"status"`
	EstimatedTimeSeconds int    `json:"estimated_time_seconds"`
	ProgressChannelURL   string `json:"progress_channel_url"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "CompanyIntel API",
		"version": Version,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}

	// Toggles absent from the options object stay at their defaults (all
	// true), so a partial object only flips the fields it names.
	opts := model.DefaultAnalyzeOptions()
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			writeError(w, http.StatusBadRequest, "invalid options")
			return
		}
	}

	sessionID := uuid.NewString()
	zap.L().Info("analysis requested",
		zap.String("company", req.CompanyName),
		zap.String("session_id", sessionID))

	name := req.CompanyName
	s.deps.Spawn.Go(func() {
		// The request context dies with this response; analysis gets its own.
		if _, err := s.deps.Analyzer.RunAnalysis(context.Background(), name, sessionID, opts); err != nil {
			zap.L().Error("background analysis failed",
				zap.String("company", name),
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	})

	writeJSON(w, http.StatusAccepted, analyzeResponse{
		SessionID:            sessionID,
		Status:               "processing",
		EstimatedTimeSeconds: estimatedTimeSecs,
		ProgressChannelURL:   "/api/progress/" + sessionID,
	})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	profile, err := service.FetchProfile(r.Context(), s.deps.Cache, companyID)
	if err != nil {
		if service.IsKind(err, service.KindNotFound) {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("Company %s not found. Please analyze it first.", companyID))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	depth := 2
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "depth must be an integer")
			return
		}
		depth = parsed
	}

	data, err := s.deps.Graph.GetGraphData(r.Context(), companyID, depth)
	if err != nil {
		zap.L().Error("graph read failed", zap.String("company_id", companyID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type companyListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	LogoURL    string `json:"logo_url"`
	AnalyzedAt string `json:"analyzed_at"`
	Status     string `json:"status"`
}

type companyListResponse struct {
	Companies []companyListItem `json:"companies"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	keys, err := s.deps.Cache.Keys(r.Context(), cache.ProfileKey("*"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Profiles are cached under three aliases; deduplicate by profile id.
	seen := map[string]bool{}
	var items []companyListItem
	for _, key := range keys {
		alias := strings.TrimPrefix(key, cache.ProfileKey(""))
		profile, found, err := s.deps.Cache.GetProfile(r.Context(), alias)
		if err != nil || !found || seen[profile.ID] {
			continue
		}
		seen[profile.ID] = true
		items = append(items, companyListItem{
			ID:         profile.ID,
			Name:       profile.CompanyName,
			Slug:       profile.Slug,
			LogoURL:    profile.Data.Overview.LogoURL,
			AnalyzedAt: profile.AnalyzedAt,
			Status:     profile.Status,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].AnalyzedAt != items[j].AnalyzedAt {
			return items[i].AnalyzedAt > items[j].AnalyzedAt
		}
		return items[i].ID < items[j].ID
	})

	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := items[offset:end]
	if page == nil {
		page = []companyListItem{}
	}

	writeJSON(w, http.StatusOK, companyListResponse{
		Companies: page,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	err := s.deps.Progress.Stream(r.Context(), sessionID, func(event model.ProgressEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && r.Context().Err() == nil {
		zap.L().Warn("progress stream ended",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"redis": pingStatus(s.deps.Cache.Ping(r.Context())),
		"neo4j": pingStatus(s.deps.Graph.Ping(r.Context())),
	}
	for name, configured := range s.deps.Credentials {
		if configured {
			services[name] = "available"
		} else {
			services[name] = "unconfigured"
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Services:  services,
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func pingStatus(err error) string {
	if err != nil {
		return "disconnected"
	}
	return "connected"
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
