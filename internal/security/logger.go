package security

import (
	"fmt"

	"github.com/sgaunet/bullets"
)

// DebugAuth logs authentication information safely.
// All details are sanitized before logging to prevent token leakage.
//
// Example:
//
//	DebugAuth(logger, "GitLab", map[string]string{
//	    "platform": "work",
//	    "url": "https://gitlab.example.com",
//	    "token": token.String(),
//	})
func DebugAuth(logger *bullets.Logger, authType string, details map[string]string) {
	if logger == nil {
		return
	}

	// Convert to any map for sanitization
	detailsInterface := make(map[string]any, len(details))
	for k, v := range details {
		detailsInterface[k] = v
	}

	sanitized := SanitizeMap(detailsInterface)
	logger.Debug(fmt.Sprintf("Using %s authentication: %v", authType, sanitized))
}
