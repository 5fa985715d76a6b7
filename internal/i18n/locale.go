// Package i18n holds the supported storefront locales, locale negotiation,
// price formatting and the embedded message catalogs.
package i18n

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Supported locales. Every public route is prefixed with one of them.
const (
	English = "en"
	Dutch   = "nl"

	Default = English
)

var (
	supported = []language.Tag{language.English, language.Dutch}
	matcher   = language.NewMatcher(supported)
	codes     = []string{English, Dutch}
)

// Locales returns the supported locale codes, default first.
func Locales() []string {
	return append([]string(nil), codes...)
}

// IsSupported reports whether code is a supported route prefix.
func IsSupported(code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Normalize returns code when supported and the default locale otherwise.
func Normalize(code string) string {
	if IsSupported(code) {
		return code
	}
	return Default
}

// Negotiate picks the best supported locale for an Accept-Language header.
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return codes[idx]
}

// Tag returns the language tag of a locale code.
func Tag(code string) language.Tag {
	switch code {
	case Dutch:
		return language.Dutch
	default:
		return language.English
	}
}

// NewCollator returns a collator for sorting names in the given locale. The
// result must not be shared between goroutines.
func NewCollator(code string) *collate.Collator {
	return collate.New(Tag(code))
}
