// Package i18n translates the error and violation codes returned by the API.
// French is the default language; English is the only other catalogue.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

const DefaultLang = "fr"

var supported = []language.Tag{language.French, language.English}

var matcher = language.NewMatcher(supported)

var catalog = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"must_be_non_negative":  "Doit être positif ou nul",
		"must_be_positive":      "Doit être strictement positif",
		"invalid_discount_kind": "Type de remise invalide",
		"invalid_status":        "Statut invalide",
		"invalid_email":         "Adresse e-mail invalide",
		"invalid_date":          "Date invalide",
		"out_of_range":          "Valeur hors limites",
		"invalid_argument":      "Paramètre invalide",
		"invalid_json":          "JSON invalide",
		"invalid_id":            "Identifiant invalide",
		"validation_failed":     "Validation échouée",
		"not_found":             "Introuvable",
		"not_editable":          "Le devis n'est plus modifiable",
		"code_already_exists":   "Ce code existe déjà",
		"client_not_found":      "Client introuvable",
		"item_not_found":        "Article introuvable",
		"client_in_use":         "Ce client a des devis",
		"rate_limited":          "Trop de requêtes",
		"internal_error":        "Erreur interne",
	},
	"en": {
		"required":              "Required",
		"must_be_non_negative":  "Must be zero or more",
		"must_be_positive":      "Must be greater than zero",
		"invalid_discount_kind": "Invalid discount kind",
		"invalid_status":        "Invalid status",
		"invalid_email":         "Invalid email address",
		"invalid_date":          "Invalid date",
		"out_of_range":          "Value out of range",
		"invalid_argument":      "Invalid argument",
		"invalid_json":          "Invalid JSON",
		"invalid_id":            "Invalid identifier",
		"validation_failed":     "Validation failed",
		"not_found":             "Not found",
		"not_editable":          "The quotation can no longer be edited",
		"code_already_exists":   "This code already exists",
		"client_not_found":      "Client not found",
		"item_not_found":        "Item not found",
		"client_in_use":         "This client has quotations",
		"rate_limited":          "Too many requests",
		"internal_error":        "Internal error",
	},
}

// T returns the translation of code in lang, falling back to French and then to
// the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the best supported language from an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := tag.Base()
	return base.String()
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFrom returns the language stored in ctx, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
