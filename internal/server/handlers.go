package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/Veraticus/spice-categorizer/internal/storage"
)

// CategorizeRequest is the body of POST /api/categorize.
type CategorizeRequest struct {
	UserID       string                       `json:"user_id,omitempty"`
	Transactions []model.CandidateTransaction `json:"transactions"`
}

// CategorizeResponse is returned by POST /api/categorize.
type CategorizeResponse struct {
	Results []model.ClassificationResult `json:"results"`
}

// CorrectionRequest is the body of POST /api/learned.
type CorrectionRequest struct {
	UserID             string `json:"user_id"`
	DescriptionPattern string `json:"description_pattern"`
	Category           string `json:"category"`
	Label              string `json:"label"`
}

// RefreshResponse reports the pattern tables after a forced refresh.
type RefreshResponse struct {
	FetchedAt     time.Time `json:"fetched_at"`
	Merchants     int       `json:"merchants"`
	KeywordGroups int       `json:"keyword_groups"`
}

// LabelsResponse lists the labels of one category.
type LabelsResponse struct {
	Category string   `json:"category"`
	Labels   []string `json:"labels"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePatternFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.store.FetchPatterns(r.Context())
	if err != nil {
		common.LogError(err, "Failed to build pattern feed", common.Fields{"request_id": RequestID(r.Context())})
		writeError(w, http.StatusInternalServerError, "failed to load patterns")
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.RefreshPatterns(r.Context(), true); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	snap := s.engine.Patterns()
	writeJSON(w, http.StatusOK, RefreshResponse{
		FetchedAt:     snap.FetchedAt,
		Merchants:     len(snap.Merchants),
		KeywordGroups: len(snap.KeywordGroups),
	})
}

// handleInvalidate drops the cached tables; the next categorize call refetches.
func (s *Server) handleInvalidate(w http.ResponseWriter, _ *http.Request) {
	s.engine.InvalidatePatterns()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req CategorizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// Refresh failures are already logged by the cache; categorization proceeds
	// against whatever snapshot the failure policy left behind.
	_ = s.engine.RefreshPatterns(ctx, false)

	var learned []model.LearnedPattern
	if req.UserID != "" {
		var err error
		learned, err = s.store.GetLearnedPatterns(ctx, req.UserID)
		if err != nil {
			common.LogError(err, "Failed to load learned patterns", common.Fields{
				"user_id":    req.UserID,
				"request_id": RequestID(ctx),
			})
			learned = nil
		}
	}

	results := s.engine.CategorizeBatch(req.Transactions, learned)
	writeJSON(w, http.StatusOK, CategorizeResponse{Results: results})
}

func (s *Server) handleRecordCorrection(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lp, err := s.store.RecordCorrection(r.Context(), req.UserID, req.DescriptionPattern, req.Category, req.Label)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		common.LogError(err, "Failed to record correction", common.Fields{"request_id": RequestID(r.Context())})
		writeError(w, http.StatusInternalServerError, "failed to record correction")
		return
	}

	writeJSON(w, http.StatusCreated, lp)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	labels := model.LabelsForCategory(category)
	if labels == nil {
		writeError(w, http.StatusNotFound, "unknown category: "+category)
		return
	}
	writeJSON(w, http.StatusOK, LabelsResponse{Category: category, Labels: labels})
}

func isValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidCategory) ||
		errors.Is(err, storage.ErrEmptyString) ||
		errors.Is(err, storage.ErrInvalidUserID)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
