package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultMatchCount = 10
	MaxMatchCount     = 20

	DefaultSeason = "e8a1"
	DefaultRegion = "na"

	// Upstream mode filter for ranked play; analysis only ever correlates
	// competitive matches with MMR events.
	CompetitiveMode = "competitive"
)

// Regions accepted by the upstream API.
var SupportedRegions = map[string]bool{
	"na":    true,
	"eu":    true,
	"ap":    true,
	"kr":    true,
	"br":    true,
	"latam": true,
}
