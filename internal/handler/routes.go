package handler

import "net/http"

// Routes registers the presence endpoints on mux
func (h *PresenceHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /{$}", h.Register)
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /devices.json", h.ListDevices)
	mux.HandleFunc("GET /healthz", h.Health)
}
