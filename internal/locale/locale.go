// Package locale maps Discord interaction locales to the language codes
// accepted by Wolfram|Alpha.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Language returns the base ISO 639 language of a BCP 47 locale such as
// "en-US" or "pt-BR". Empty or unparseable locales yield fallback.
func Language(locale, fallback string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return fallback
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return fallback
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return fallback
	}
	return base.String()
}
