package output

// T exposes a minimal i18n contract for user-facing messages.
// Implementations provide message lookup + templating for a given locale.
type T interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	T(locale, key string, data map[string]any) string
}

// Localizer binds a translator to one locale.
type Localizer struct {
	Translator T
	Locale     string
}

// Msg renders key in the bound locale. A Localizer without translator
// returns the key itself.
func (l Localizer) Msg(key string, data map[string]any) string {
	if l.Translator == nil {
		return key
	}
	return l.Translator.T(l.Locale, key, data)
}
