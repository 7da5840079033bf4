package view

import (
	"html/template"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newFuncMap(locale language.Tag) template.FuncMap {
	return template.FuncMap{
		"money": func(m commerce.Money) string {
			return m.Format(locale)
		},
		"formatDate": formatDate,
		"isoDate":    isoDate,
		"truncate":   truncate,
		"title":      titleCase,
		"safeHTML":   safeHTML,
		"dict":       dict,
		"add":        func(a, b int) int { return a + b },
		"default":    defaultString,
		"year":       func() int { return time.Now().Year() },
	}
}

// formatDate renders a date the way article bylines show it
// Example: 2024-01-15 -> "January 15, 2024"
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// truncate cuts s to max runes including the ellipsis
func truncate(s string, max int) string {
	const suffix = "..."
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(suffix) {
		return string(runes[:max])
	}
	return string(runes[:max-len(suffix)]) + suffix
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// safeHTML marks merchant-authored HTML (product descriptions, article and
// page bodies) as safe. The platform sanitizes these fields; never pass
// shopper input.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// dict creates a map from key-value pairs for passing several values to a partial
func dict(pairs ...any) map[string]any {
	result := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		if key, ok := pairs[i].(string); ok {
			result[key] = pairs[i+1]
		}
	}
	return result
}

func defaultString(def, val string) string {
	if val == "" {
		return def
	}
	return val
}
