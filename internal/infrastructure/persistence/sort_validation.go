package persistence

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"stock":      true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"total":      true,
	"status":     true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"email":      true,
}

var searchFolder = cases.Lower(language.Und)

// likePattern turns user search input into a case-insensitive LIKE
// pattern: NFKD-decomposed with combining marks stripped, lower-cased and
// with LIKE wildcards escaped. Pair it with a "LIKE ? ESCAPE '\'" clause
// over LOWER(column). Returns "" when nothing searchable remains.
func likePattern(search string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	cleaned, _, err := transform.String(t, strings.TrimSpace(search))
	if err != nil {
		cleaned = strings.TrimSpace(search)
	}
	cleaned = searchFolder.String(cleaned)
	if cleaned == "" {
		return ""
	}
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(cleaned) + "%"
}
