package tz

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
)

// Load returns the named IANA location (e.g. "America/Los_Angeles").
// An empty or unknown name yields UTC.
func Load(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}
