package model

import internalmodel "github.com/goliatone/go-tugboat/internal/model"

// ParseUIExtensions extracts metadata and UI hints from x-formgen extensions.
// It returns nil maps when no supported metadata is found.
func ParseUIExtensions(ext map[string]any) (map[string]string, map[string]string) {
	return internalmodel.ParseUIExtensions(ext)
}

// IsAllowedUIHintKey reports whether key is a recognised UI hint.
func IsAllowedUIHintKey(key string) bool {
	return internalmodel.IsAllowedUIHintKey(key)
}
