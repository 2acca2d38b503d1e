// Package api exposes the study, generation, quota and dashboard operations
// over HTTP. Handlers decode and validate requests, call one service, and
// translate its errors into status codes and stable error codes without
// leaking internal messages.
package api
