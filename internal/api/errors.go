package api

import "errors"

// Failure kinds surfaced by the upstream client. Callers classify with
// errors.Is instead of matching message text.
var (
	// ErrNoAPIKey: no credential configured yet; set_api_key or
	// HDEV_API_KEY is required first.
	ErrNoAPIKey = errors.New("api key not set")

	// ErrUnauthorized: upstream rejected the configured credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound: the player, match, or leaderboard entity does not exist
	// upstream. An expected outcome for lookups, not a failure of the call
	// path.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable: network failure or upstream 5xx. Surfaced,
	// never retried here.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
