package module

import (
	"listgate/internal/platform/config"
)

// Options controls query limits and registry loading for the records module
type Options struct {
	MaxPageSize     int
	DefaultPageSize int
	MaxSortKeys     int
	MaxFilterValues int

	CursorSecret string // HMAC seed for cursor tokens
	SchemaPath   string // yaml schema override; empty uses the embedded defaults
}

// FromConfig reads RECORDS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("RECORDS_")
	return Options{
		MaxPageSize:     rc.MayInt("MAX_PAGE_SIZE", 200),
		DefaultPageSize: rc.MayInt("DEFAULT_PAGE_SIZE", 20),
		MaxSortKeys:     rc.MayInt("MAX_SORT_KEYS", 4),
		MaxFilterValues: rc.MayInt("MAX_FILTER_VALUES", 100),
		CursorSecret:    rc.MayString("CURSOR_SECRET", ""),
		SchemaPath:      rc.MayString("SCHEMA_PATH", ""),
	}
}
