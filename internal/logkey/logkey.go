// Package logkey centralizes structured logging attribute names.
package logkey

const (
	TraceID = "trace_id"
	Method  = "method"
	Path    = "path"
	Status  = "status"
	Error   = "error"
	Subject = "subject"
)
