package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const extensionNamespace = "x-formgen"

var uiHintKeySet = map[string]struct{}{
	"cssClass":    {},
	"helpText":    {},
	"hidden":      {},
	"hideLabel":   {},
	"inputType":   {},
	"label":       {},
	"placeholder": {},
	"rows":        {},
	"submitLabel": {},
	"widget":      {},
}

// AllowedUIHintKeys returns a sorted copy of the recognised UI extension keys.
func AllowedUIHintKeys() []string {
	keys := make([]string, 0, len(uiHintKeySet))
	for key := range uiHintKeySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsAllowedUIHintKey reports whether key participates in the UI hint contract.
func IsAllowedUIHintKey(key string) bool {
	_, ok := uiHintKeySet[key]
	return ok
}

// ParseUIExtensions extracts metadata and UI hints from x-formgen extensions.
// It returns nil maps when no supported metadata is found.
func ParseUIExtensions(ext map[string]any) (map[string]string, map[string]string) {
	metadata := metadataFromExtensions(ext)
	return metadata, filterUIHints(metadata)
}

func metadataFromExtensions(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}

	result := make(map[string]string)
	for key, value := range ext {
		if key == extensionNamespace {
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for nestedKey, nestedValue := range nested {
				if str, ok := CanonicalizeExtensionValue(nestedValue); ok {
					result[nestedKey] = str
				}
			}
			continue
		}
		if trimmed, ok := strings.CutPrefix(key, extensionNamespace+"-"); ok {
			if str, ok := CanonicalizeExtensionValue(value); ok {
				result[trimmed] = str
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func filterUIHints(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string)
	for key, value := range metadata {
		if IsAllowedUIHintKey(key) {
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeUIHints(target map[string]string, updates map[string]string) map[string]string {
	if len(updates) == 0 {
		return target
	}
	if target == nil {
		target = make(map[string]string, len(updates))
	}
	for key, value := range updates {
		target[key] = value
	}
	return target
}

// CanonicalizeExtensionValue turns extension values into renderer-friendly
// strings. Returns false when the value cannot be represented.
func CanonicalizeExtensionValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case map[string]any, []any, []string, map[string]string:
		payload, err := json.Marshal(v)
		if err != nil || string(payload) == "{}" || string(payload) == "[]" {
			return "", false
		}
		return string(payload), true
	default:
		return "", false
	}
}
