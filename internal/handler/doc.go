// Package handler implements the HTTP surface of lanpresence.
//
// # Endpoints
//
//	POST /?name=..&address=..  register the caller's device (204, 500 on store error)
//	GET  /                     HTML list of devices on the caller's network
//	GET  /devices.json         {"devices":[{"name","address","last_seen"}]}
//	GET  /healthz              store reachability (200 / 503)
//
// The caller's network key is its IP address. Behind a reverse proxy, with
// trust_proxy enabled, it is read from X-Forwarded-For or X-Real-IP.
//
// Errors are returned as JSON with {error}; the cause is only logged.
//
// Middleware provides panic recovery, CORS and request logging. The SSE
// stream at GET /events is served by the hub package.
package handler
