package services

import (
	"errors"
	"strings"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

// The service gives us no stable error codes, so classification matches on the
// message text. Order matters: the first matching group wins.
var serviceErrorPatterns = []struct {
	kind    models.ErrorKind
	needles []string
}{
	{
		kind:    models.KindInvalidCredentials,
		needles: []string{"api key not valid", "api_key_invalid", "invalid api key", "unauthenticated", "permission_denied", "error 401", "error 403"},
	},
	{
		kind:    models.KindRateLimited,
		needles: []string{"429", "resource_exhausted", "rate limit", "quota"},
	},
	{
		kind:    models.KindContentBlocked,
		needles: []string{"safety", "blocked", "prohibited_content", "recitation", "blocklist"},
	},
	{
		kind:    models.KindMalformedResponse,
		needles: []string{"json", "malformed"},
	},
}

// ClassifyServiceError maps an extraction-service failure onto an ErrorKind.
// Errors that already carry a kind keep it.
func ClassifyServiceError(err error) models.ErrorKind {
	if err == nil {
		return models.KindUnclassified
	}

	var extractionErr *models.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}

	msg := strings.ToLower(err.Error())
	for _, p := range serviceErrorPatterns {
		for _, needle := range p.needles {
			if strings.Contains(msg, needle) {
				return p.kind
			}
		}
	}

	return models.KindUnclassified
}
