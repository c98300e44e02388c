// Package handlers provides the HTTP handlers for the kitchen JSON API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                 `json:"success"`
	Data    interface{}          `json:"data,omitempty"`
	Error   *errors.ErrorDetails `json:"error,omitempty"`
}

// Handlers handles kitchen API requests
type Handlers struct {
	kitchen  inbound.KitchenService
	transfer inbound.TransferService
	seed     inbound.SeedService
	feed     outbound.ChangeFeed
	logger   *zap.Logger
}

// New creates the API handlers
func New(
	kitchen inbound.KitchenService,
	transfer inbound.TransferService,
	seed inbound.SeedService,
	feed outbound.ChangeFeed,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		kitchen:  kitchen,
		transfer: transfer,
		seed:     seed,
		feed:     feed,
		logger:   logger.Named("http"),
	}
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeRaw writes data without the envelope, as indented JSON
func (h *Handlers) writeRaw(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err to its status code and the error envelope
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "request failed")
	status := appErr.StatusCode()

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", string(appErr.Code)),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}

	body := errors.ToErrorResponse(appErr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: false, Error: &body.Error}); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// decode reads a JSON request body into target
func decode(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return errors.NewBadRequestError("request body is empty")
		}
		return errors.NewBadRequestError("request body is not valid JSON").WithCause(err)
	}
	return nil
}

// idParam parses the {id} URL parameter
func idParam(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewBadRequestError("invalid id").WithMetadata("id", raw)
	}
	return id, nil
}

// idsRequest is the body of every bulk delete
type idsRequest struct {
	IDs []uint64 `json:"ids"`
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// boolQuery reads a query flag; anything but "true" or "1" is false
func boolQuery(r *http.Request, key string) bool {
	v := r.URL.Query().Get(key)
	return v == "true" || v == "1"
}
