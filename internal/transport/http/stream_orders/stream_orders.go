package streamorders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/sync/livesync"
	"github.com/go-chi/chi/v5"
)

// hub is an interface for the live order sync hub.
type hub interface {
	Subscribe(ctx context.Context, businessID int64) *livesync.Subscription
}

// StreamOrders streams queue snapshots for a business over server-sent
// events. The first event is the current snapshot, every later event is
// the freshest state after a change. Stale intermediate snapshots may be
// skipped for slow clients.
func StreamOrders(w http.ResponseWriter, r *http.Request, h hub) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)

		return
	}

	sub := h.Subscribe(r.Context(), businessID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			if err := writeEvent(w, snapshot); err != nil {
				slog.Error("Error writing order stream event", "error", err)

				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, snapshot []order.Order) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshalling snapshot: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("error writing snapshot: %w", err)
	}

	return nil
}
