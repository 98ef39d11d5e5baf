package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ai-video-writer/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// ---- request/response shapes ----

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type groupSpec struct {
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

type rangeSpec struct {
	Label string `json:"label"`
	Start string `json:"start"` // 2006-01-02
	End   string `json:"end"`
}

type reportRequest struct {
	ChannelID string      `json:"channel_id"`
	Groups    []groupSpec `json:"groups"`
	Ranges    []rangeSpec `json:"ranges"`
}

type articleRequest struct {
	VideoID string `json:"video_id"`
	Style   string `json:"style"`
}

type jobCreatedResponse struct {
	JobID string `json:"job_id"`
}

// jobResponse mirrors the poll contract: result and error are always
// present, null until set.
type jobResponse struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Status          string    `json:"status"`
	ProgressPercent int       `json:"progress_percent"`
	ProgressMessage string    `json:"progress_message"`
	Result          any       `json:"result"`
	Error           *string   `json:"error"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toJobResponse(job *model.Job) jobResponse {
	resp := jobResponse{
		ID:              job.ID,
		Kind:            job.Kind,
		Status:          string(job.Status),
		ProgressPercent: job.ProgressPercent,
		ProgressMessage: job.ProgressMessage,
		Result:          job.Result,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
	if job.Error != "" {
		msg := job.Error
		resp.Error = &msg
	}
	return resp
}

// ---- handlers ----

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiSecret == "" || req.APIKey != s.apiSecret {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint()
	if err != nil {
		http.Error(w, "Failed to mint token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" || len(req.Groups) == 0 || len(req.Ranges) == 0 {
		http.Error(w, "channel_id, groups and ranges are required", http.StatusBadRequest)
		return
	}

	groups := make([]model.VideoGroup, 0, len(req.Groups))
	for _, g := range req.Groups {
		if g.Name == "" {
			http.Error(w, "group name is required", http.StatusBadRequest)
			return
		}
		groups = append(groups, model.VideoGroup{Name: g.Name, Keyword: g.Keyword})
	}
	ranges := make([]model.DateRange, 0, len(req.Ranges))
	for _, rg := range req.Ranges {
		start, err1 := time.Parse("2006-01-02", rg.Start)
		end, err2 := time.Parse("2006-01-02", rg.End)
		if rg.Label == "" || err1 != nil || err2 != nil || end.Before(start) {
			http.Error(w, "invalid date range", http.StatusBadRequest)
			return
		}
		ranges = append(ranges, model.DateRange{Label: rg.Label, Start: start, End: end})
	}

	channelID := req.ChannelID
	jobID := s.executor.Execute("report", func(ctx context.Context, id string) (any, error) {
		progress := func(percent int, message string) {
			s.registry.UpdateProgress(id, percent, message)
		}
		matrix, err := s.reportUC.Aggregate(ctx, channelID, groups, ranges, progress)
		if err != nil {
			return nil, err
		}
		return matrix, nil
	})
	writeJSON(w, http.StatusAccepted, jobCreatedResponse{JobID: jobID})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VideoID == "" {
		http.Error(w, "video_id is required", http.StatusBadRequest)
		return
	}

	videoID, style := req.VideoID, req.Style
	jobID := s.executor.Execute("article", func(ctx context.Context, id string) (any, error) {
		s.registry.UpdateProgress(id, 10, "generating article for "+videoID)
		article, err := s.articleUC.Generate(ctx, videoID, style)
		if err != nil {
			return nil, err
		}
		return article, nil
	})
	writeJSON(w, http.StatusAccepted, jobCreatedResponse{JobID: jobID})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.registry.Get(id)
	if !ok {
		// Absent is the expected outcome past retention: a distinct
		// not-found signal, not a failure.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.executor.Cancel(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunningJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": s.executor.Running()})
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
