package page

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy

	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
)

// sanitizeMessage keeps inline formatting and links so status messages such as
// "Preview created: <a href=...>" survive.
func sanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

// sanitizeCaption strips all markup from a caption override.
func sanitizeCaption(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(captionSanitizer().Sanitize(trimmed))
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		policy.AllowElements("em", "strong", "code", "br")
		messagePolicy = policy
	})
	return messagePolicy
}

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		captionPolicy = bluemonday.StrictPolicy()
	})
	return captionPolicy
}
