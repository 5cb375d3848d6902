package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// CountryLookup resolves an ISO country code for an IP address.
type CountryLookup func(ip string) (string, error)

// Locales the amount formatter knows how to render.
var supportedLocales = map[string]struct{}{"en": {}, "id": {}}

// countryLocales picks a display locale for visitors who sent no language
// preference at all.
var countryLocales = map[string]string{"ID": "id"}

// Locale stores the display locale for the request. Explicit headers win,
// then the visitor's country, then defaultLocale.
func Locale(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback, ok := supportedLocale(defaultLocale)
	if !ok {
		fallback = "en"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, fallback, lookup)
			ctx := context.WithValue(r.Context(), localeContextKey{}, locale)
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if locale, ok := supportedLocale(r.Header.Get("X-Locale")); ok {
		return locale
	}
	accept := r.Header.Get("Accept-Language")
	if locale, ok := acceptedLocale(accept); ok {
		return locale
	}
	if strings.TrimSpace(accept) == "" && lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil {
				if locale, ok := countryLocales[strings.ToUpper(country)]; ok {
					return locale
				}
			}
		}
	}
	return fallback
}

// acceptedLocale returns the supported locale with the highest q-weight in
// an Accept-Language header.
func acceptedLocale(accept string) (string, bool) {
	if strings.TrimSpace(accept) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil {
		return "", false
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if locale, ok := supportedLocale(base.String()); ok {
			return locale, true
		}
	}
	return "", false
}

// supportedLocale reduces a BCP 47 tag such as "id-ID" to its base language
// when the formatter supports it.
func supportedLocale(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	_, ok := supportedLocales[tag]
	return tag, ok
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the display locale chosen by Locale, or "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeContextKey{}).(string); ok {
		return v
	}
	return "en"
}
