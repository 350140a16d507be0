// Package config reads module settings from prefixed environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"oraflow/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "ORA_ENRICH_", "SERVICE_PGSQL_")
// New() is the root view, Prefix nests module scopes under it
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf, cfg.Prefix("ORA_") then .Prefix("ENRICH_") reads ORA_ENRICH_*
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully qualified env var name for k
func (c Conf) Key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.Key(k))) }

// parse reads key through fn; blank yields def, a parse failure logs a warning and yields def
func parse[T any](c Conf, key string, def T, kind string, fn func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// mustParse is parse without a default, any failure panics through the logger
func mustParse[T any](c Conf, key, kind string, fn func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.Key(key)).Str("value", s).Msgf("invalid %s value", kind)
	}
	return v
}

func identity(s string) (string, error) { return s, nil }

// MustString panics if the given key is missing or blank
func (c Conf) MustString(key string) string { return mustParse(c, key, "string", identity) }

// MustInt panics if the given key is missing or not an int
func (c Conf) MustInt(key string) int { return mustParse(c, key, "int", strconv.Atoi) }

// MustFloat64 panics if the given key is missing or not a float
func (c Conf) MustFloat64(key string) float64 {
	return mustParse(c, key, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// Require panics on the first key that is missing or blank
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if c.lookup(k) == "" {
			logger.Get().Panic().Str("key", c.Key(k)).Msg("missing required env")
		}
	}
}

// MayString returns the value or def when blank
func (c Conf) MayString(key, def string) string { return parse(c, key, def, "string", identity) }

// MayInt returns the value or def; invalid input logs and returns def
func (c Conf) MayInt(key string, def int) int { return parse(c, key, def, "int", strconv.Atoi) }

// MayFloat64 returns the value or def; invalid input logs and returns def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return parse(c, key, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def; invalid input logs and returns def
func (c Conf) MayBool(key string, def bool) bool {
	return parse(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value or def; invalid input logs and returns def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parse(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blank items; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	return c.maySplit(key, ",", def)
}

// MaySplit is MayCSV with a custom separator, used for term lists that contain commas
func (c Conf) MaySplit(key, sep string, def []string) []string {
	return c.maySplit(key, sep, def)
}

func (c Conf) maySplit(key, sep string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value (lowercased) when it is one of allowed, def when blank; panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
