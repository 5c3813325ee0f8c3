package handler

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"lanpresence/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Presence is the service surface the handlers need
type Presence interface {
	Register(ctx context.Context, networkKey, name, address string) error
	Discover(ctx context.Context, networkKey string) ([]domain.Device, error)
	Ping(ctx context.Context) error
}

// PresenceHandler handles registration and discovery requests
type PresenceHandler struct {
	svc        Presence
	trustProxy bool
	log        zerolog.Logger
}

// NewPresenceHandler creates a new presence handler. With trustProxy set the
// caller's network key comes from X-Forwarded-For / X-Real-IP.
func NewPresenceHandler(svc Presence, trustProxy bool, log zerolog.Logger) *PresenceHandler {
	return &PresenceHandler{
		svc:        svc,
		trustProxy: trustProxy,
		log:        log,
	}
}

// ErrorResponse is the JSON body of every error reply. Causes are logged,
// never sent to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DevicesResponse is the body of GET /devices.json
type DevicesResponse struct {
	Devices []domain.Device `json:"devices"`
}

type indexPage struct {
	Devices []domain.Device
}

// Register records the caller's device: POST /?name=...&address=...
func (h *PresenceHandler) Register(w http.ResponseWriter, r *http.Request) {
	networkKey := h.networkKey(r)
	name := r.FormValue("name")
	address := r.FormValue("address")

	if err := h.svc.Register(r.Context(), networkKey, name, address); err != nil {
		h.log.Error().Err(err).Str("network", networkKey).Msg("Failed to register device")
		h.writeError(w, "Failed to register device", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDevices returns the devices visible to the caller as JSON
func (h *PresenceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, ok := h.discover(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, DevicesResponse{Devices: devices}, http.StatusOK)
}

// Index renders the devices visible to the caller as HTML
func (h *PresenceHandler) Index(w http.ResponseWriter, r *http.Request) {
	devices, ok := h.discover(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexPage{Devices: devices}); err != nil {
		// Headers are already sent
		h.log.Error().Err(err).Msg("Failed to render index page")
	}
}

// Health reports whether the presence store is reachable
func (h *PresenceHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		h.writeError(w, "Store unavailable", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *PresenceHandler) discover(w http.ResponseWriter, r *http.Request) ([]domain.Device, bool) {
	networkKey := h.networkKey(r)

	devices, err := h.svc.Discover(r.Context(), networkKey)
	if err != nil {
		h.log.Error().Err(err).Str("network", networkKey).Msg("Failed to discover devices")
		h.writeError(w, "Failed to discover devices", http.StatusInternalServerError)
		return nil, false
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	return devices, true
}

func (h *PresenceHandler) networkKey(r *http.Request) string {
	return getClientIP(r, h.trustProxy)
}

// Helper methods

func (h *PresenceHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON")
	}
}

func (h *PresenceHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: message}, statusCode)
}
