package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field normalizers. Each is a pure function of a single field value,
// applied once at ingestion before the value reaches the semantics engine.

// titleCase capitalizes the first letter of every word: "lenina 1" →
// "Lenina 1", "ivanov-petrov" → "Ivanov-Petrov". Used for person names,
// street addresses and project names.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// sentenceCase upper-cases the first rune and lower-cases the rest.
// Used for free-text fields (decision text, descriptions).
func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var postCodeRE = regexp.MustCompile(`^[0-9]{6}$`)

// validPostCode reports whether s is a six-digit postal code.
func validPostCode(s string) bool {
	return postCodeRE.MatchString(s)
}

// validEmail reports whether s parses as a bare RFC 5322 address.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

const dateLayout = "2006-01-02"

// validDate reports whether s is an ISO-8601 calendar date. Dates travel
// through the API and the store as strings in this layout.
func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// inSet reports whether v is one of the allowed enumeration values.
func inSet(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
