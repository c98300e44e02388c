package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"go.uber.org/zap"
)

// GetSettings handles GET /api/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.kitchen.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, current)
}

// SaveSettings handles PUT /api/settings. Keys missing from the body keep
// their current value.
func (h *Handlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.kitchen.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := decode(r, &current); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.kitchen.SaveSettings(r.Context(), current); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, current)
}

// Export handles GET /api/export as a file download
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.transfer.Export(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("kitchen-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	h.writeRaw(w, snap)
}

// Import handles POST /api/import. The body is an export document; it replaces
// every collection.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	result, err := h.transfer.Import(r.Context(), r.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Sync handles POST /api/seed/sync
func (h *Handlers) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.seed.Sync(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// keepAlive is the interval of SSE comment lines that keep proxies from closing the stream
const keepAlive = 25 * time.Second

// Events handles GET /api/events?collection=... as a Server-Sent-Events stream
// of the change feed. Each change is one event named "<collection>.<op>".
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, errors.NewInternalError("streaming is not supported"))
		return
	}

	var collections []shared.Collection
	for _, c := range r.URL.Query()["collection"] {
		collections = append(collections, shared.Collection(c))
	}
	changes, cancel := h.feed.Subscribe(collections...)
	defer cancel()

	// the server's write timeout must not end the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case change, ok := <-changes:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				h.logger.Error("Failed to encode change", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.EventName(), data)
			flusher.Flush()
		}
	}
}
