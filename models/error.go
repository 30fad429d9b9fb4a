package models

// Error codes carried in the failure envelope. The client branches on
// these strings, so they are part of the wire contract.
const (
	ErrAuthRequired        = "auth_required"
	ErrInvalid             = "invalid"
	ErrMissing             = "missing"
	ErrMissingMessage      = "missing_message"
	ErrUnauthorized        = "unauthorized"
	ErrNotFound            = "notfound"
	ErrExists              = "exists"
	ErrInvalidRole         = "invalid_role"
	ErrInvalidLevel        = "invalid_level"
	ErrAlreadySeeded       = "already_seeded"
	ErrCannotDeleteSeed    = "cannot_delete_seed_admin"
	ErrServerMisconfigured = "server_misconfigured"
)

// ErrorResponse is the failure envelope returned on every non-2xx response
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
