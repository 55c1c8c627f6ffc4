package i18n

import (
	"embed"
	"slices"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"riseup/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator renders the embedded active.*.toml bundles with go-i18n.
// Localizers are built once per requested locale.
type Translator struct {
	bundle     *i18n.Bundle
	fallback   language.Tag
	localizers sync.Map // locale string -> *i18n.Localizer
}

// NewTranslator loads every embedded bundle. locale is the LOCALE setting:
// it becomes the fallback for lookups in other locales, unless it is
// unparseable or has no bundle, in which case English is used.
func NewTranslator(locale string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localeFS.ReadDir(".")
	if err != nil {
		log.Error().Err(err).Msg("❌ i18n: failed to list bundles")
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f.Name()); err != nil {
			log.Error().Err(err).Str("file", f.Name()).Msg("❌ i18n: failed to load bundle")
		}
	}

	t := &Translator{bundle: bundle, fallback: language.English}
	tag, err := language.Parse(locale)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("locale", locale).Msg("i18n: invalid LOCALE, using English")
	case !slices.Contains(bundle.LanguageTags(), tag):
		log.Warn().Str("locale", locale).Msg("i18n: no bundle for LOCALE, using English")
	default:
		t.fallback = tag
	}
	return t
}

// Fallback returns the locale used when a key is missing in the requested
// one.
func (t *Translator) Fallback() language.Tag { return t.fallback }

func (t *Translator) localizer(locale string) *i18n.Localizer {
	if l, ok := t.localizers.Load(locale); ok {
		return l.(*i18n.Localizer)
	}
	l, _ := t.localizers.LoadOrStore(locale, i18n.NewLocalizer(t.bundle, locale, t.fallback.String()))
	return l.(*i18n.Localizer)
}

// T renders key in locale, then in the fallback locale. A key found in
// neither is returned as is.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("locale", locale).Msg("i18n: localize failed")
		return key
	}
	return msg
}
