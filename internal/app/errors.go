package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownPreset = errors.New("unknown hotkey preset")
)
