package auth

import "errors"

// Sentinel kinds for capability errors.
var (
	ErrPermissionDenied = errors.New("permission denied")
)
