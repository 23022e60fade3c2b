package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy allows the formatting tags expected in task descriptions and
// comments while stripping scripts and event handlers.
var htmlPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips dangerous markup from user-supplied rich text.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(htmlPolicy.Sanitize(s))
}
