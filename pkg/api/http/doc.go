// Package http provides the HTTP API of the conversion service.
//
// The HTTP server exposes endpoints for:
//   - Matrix conversion (POST /convert)
//   - Heatmap conversion (POST /convert/heatmaps)
//   - Health checks
//   - Prometheus metrics
//
// Every route is wrapped in a CORS policy that allows any origin.
package http
