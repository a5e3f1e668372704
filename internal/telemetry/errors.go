package telemetry

import "errors"

var (
	errNotAuthenticated = errors.New("first message must be authenticate")
	errMissingPluginID  = errors.New("plugin id is required")
)
