package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/retrieval"
)

type queryRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	s.logger.Debug("query request", zap.String("question", req.Question))

	result := s.orch.Retrieve(r.Context(), req.Question)

	// A retrieved fee answer that contradicts the published fee table is
	// demoted to the generation path rather than served as-is.
	if !result.DeferToGeneration && !validFeeAnswer(result, s.config.Validation.SemesterFees) {
		s.logger.Warn("retrieved answer failed fee validation",
			zap.String("department", result.Department),
			zap.String("source", result.Source))
		result.Answer = ""
		result.Score = 0
		result.Method = retrieval.MethodDefer
		result.DeferToGeneration = true
	}

	resp := models.QueryResponse{
		Answer:     result.Answer,
		Score:      result.Score,
		Method:     result.Method,
		Source:     result.Source,
		Department: result.Department,
		Categories: result.Categories,
		References: result.References,
	}

	if result.DeferToGeneration && s.generator != nil {
		hint, _ := s.orch.Ledger().MatchingPattern(primaryCategory(result.Categories))
		answer, err := s.generator.Generate(r.Context(), req.Question, result.References, hint)
		if err != nil {
			s.logger.Error("generation failed", zap.Error(err))
		} else {
			resp.Answer = answer
			resp.Generated = true
		}
	}

	s.respondJSON(w, http.StatusOK, resp)
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Verdict  string `json:"verdict"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		s.respondError(w, http.StatusBadRequest, "question and answer are required")
		return
	}
	verdict, err := models.ParseVerdict(req.Verdict)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats := s.orch.SubmitFeedback(req.Question, req.Answer, verdict)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "recorded",
		"stats":  stats,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.orch.Ledger().Stats()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"records":           s.orch.CorpusSize(),
		"instruction_pairs": s.orch.SecondarySize(),
		"feedback":          stats,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func primaryCategory(categories []string) string {
	if len(categories) == 0 {
		return "general"
	}
	return categories[0]
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
