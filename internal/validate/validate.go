package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"thriftshop/internal/domain"
)

const (
	maxQ  = 50
	maxID = 128
)

var reSlug = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

var structs = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match what the client sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// printable reports whether s is valid UTF-8 free of control characters.
func printable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) && r != ' ' {
			return false
		}
	}
	return true
}

// Q validates a search query: trims, cuts to maxQ characters and rejects control characters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > maxQ {
		s = strings.TrimSpace(string(r[:maxQ]))
	}
	return s, printable(s)
}

// ID validates a product identifier as it appears in the sheet. Any non-blank
// printable text is accepted since the sheet is the only authority on ids.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= maxID && printable(s)
}

// Slug validates short lowercase keys such as banner names.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSlug.MatchString(s)
}

// Customer trims d and lists the required fields that are empty.
func Customer(d domain.CustomerDetails) (domain.CustomerDetails, []string) {
	d = d.Trimmed()
	err := structs.Struct(d)
	if err == nil {
		return d, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return d, []string{err.Error()}
	}
	missing := make([]string, 0, len(ve))
	for _, fe := range ve {
		missing = append(missing, fe.Field())
	}
	return d, missing
}
