package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/pkg/models"
)

// getJSON serves the value built by body to GET requests only.
func (s *Server) getJSON(w http.ResponseWriter, r *http.Request, body func() any) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, body())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.getJSON(w, r, func() any {
		return models.HealthResponse{Status: "healthy", Timestamp: time.Now().Unix()}
	})
}

// handleAlgorithms lists the multiplier names /multiply accepts.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.getJSON(w, r, func() any { return models.AlgorithmsResponse{Algorithms: s.svc.Algorithms()} })
}

// handleRings lists the coefficient rings /multiply accepts.
func (s *Server) handleRings(w http.ResponseWriter, r *http.Request) {
	s.getJSON(w, r, func() any { return models.RingsResponse{Rings: s.svc.Rings()} })
}

// handleMultiply decodes a MultiplyRequest body, multiplies the operands and
// returns the product.
//
// Status codes:
//   - 400 for malformed JSON or any invalid operand, ring, algorithm or threshold
//   - 413 when the body exceeds the configured limit
//   - 503 when the request times out or the client goes away
func (s *Server) handleMultiply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := decodeMultiplyRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	resp, err := s.svc.Multiply(ctx, req)
	if err != nil {
		s.metrics.ObserveMultiplication(req.Ring, req.Algorithm, outcomeError, 0)
		var verr apperrors.ValidationError
		switch {
		case errors.As(err, &verr):
			s.writeErrorResponse(w, http.StatusBadRequest, verr.Error())
		case apperrors.IsContextError(err):
			s.writeErrorResponse(w, http.StatusServiceUnavailable, "Request canceled or timed out")
		default:
			s.log.Error("multiplication failed", err)
			s.writeErrorResponse(w, http.StatusInternalServerError, "Multiplication failed")
		}
		return
	}

	d, _ := time.ParseDuration(resp.Duration)
	s.metrics.ObserveMultiplication(resp.Ring, resp.Algorithm, outcomeOK, d)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// decodeMultiplyRequest reads exactly one JSON object from the body.
func decodeMultiplyRequest(r *http.Request) (models.MultiplyRequest, error) {
	var req models.MultiplyRequest
	if r.Body == nil {
		return req, errors.New("empty body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, errors.New("unexpected data after the request object")
	}
	return req, nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding JSON response", err)
	}
}

// writeErrorResponse sends an ErrorResponse whose Error is the status text.
func (s *Server) writeErrorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSONResponse(w, status, models.ErrorResponse{Error: http.StatusText(status), Message: message})
}
