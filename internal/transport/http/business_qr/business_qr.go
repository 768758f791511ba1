package businessqr

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/business"
	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/viper"
)

// service is an interface for the service layer.
type service interface {
	GetByID(ctx context.Context, id int64) (*business.Business, error)
}

// BusinessQR renders a PNG QR code pointing at the customer ordering
// page of a business, for printing at the counter.
func BusinessQR(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	b, err := service.GetByID(r.Context(), businessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting business for qr", "error", err)

		return
	}
	if b == nil {
		http.Error(w, "business not found", http.StatusNotFound)

		return
	}

	url := viper.GetString("server.public_base_url") + "/business/" + strconv.FormatInt(b.ID, 10)

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error encoding qr code", "error", err)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		slog.Error("Error writing response for business qr", "error", err)
	}
}
