package discord

import "riseup/internal/domain"

// ErrorMessageKey maps an error to the i18n key of its user-facing
// message. Errors without a domain code map to "errors.generic".
func ErrorMessageKey(err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.generic"
}
