// Package weekday resolves locale-specific weekday abbreviations without
// touching process-wide locale state.
package weekday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en_US.UTF-8"

// ErrUnsupportedLocale is returned for locales without weekday names.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// ShortName returns the uppercase abbreviated weekday name of t in the given
// POSIX-style locale, e.g. "MON" for a Monday in en_US.UTF-8.
func ShortName(t time.Time, locale string) (string, error) {
	loc, tag, err := parseLocale(locale)
	if err != nil {
		return "", err
	}

	name := monday.Format(t, "Mon", loc)
	return cases.Upper(tag).String(name), nil
}

// Supported reports whether locale can be resolved by ShortName.
func Supported(locale string) bool {
	_, _, err := parseLocale(locale)
	return err == nil
}

// Resolver binds a locale and a time zone for repeated lookups.
type Resolver struct {
	locale   string
	location *time.Location
}

// NewResolver creates a resolver for locale. An empty locale means DefaultLocale.
// Timestamps are converted to location before the weekday is taken; a nil
// location keeps each timestamp's own zone.
func NewResolver(locale string, location *time.Location) (*Resolver, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if _, _, err := parseLocale(locale); err != nil {
		return nil, err
	}
	return &Resolver{locale: locale, location: location}, nil
}

// ShortName returns the uppercase abbreviated weekday name of t.
func (r *Resolver) ShortName(t time.Time) (string, error) {
	if r.location != nil {
		t = t.In(r.location)
	}
	return ShortName(t, r.locale)
}

// Locale returns the resolver's locale identifier.
func (r *Resolver) Locale() string {
	return r.locale
}

// parseLocale strips the codeset and modifier ("en_US.UTF-8@euro" -> "en_US").
func parseLocale(locale string) (monday.Locale, language.Tag, error) {
	name := locale
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}

	for _, l := range monday.ListLocales() {
		if string(l) == name {
			tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
			if err != nil {
				return "", language.Und, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
			}
			return l, tag, nil
		}
	}

	return "", language.Und, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
}
