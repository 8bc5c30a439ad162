package urlhandler

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ResolveURL resolves a (possibly relative) href against base.
// Without a base the href must already be absolute.
func ResolveURL(href string, base *url.URL) (string, error) {
	trimmedHref := strings.TrimSpace(href)
	if trimmedHref == "" {
		return "", errors.New("href is empty")
	}

	if base == nil {
		parsedHref, err := url.Parse(trimmedHref)
		if err != nil {
			return "", fmt.Errorf("error parsing base-less href '%s': %w", trimmedHref, err)
		}
		if !parsedHref.IsAbs() {
			return "", fmt.Errorf("cannot process relative URL '%s' without a base URL", trimmedHref)
		}
		return parsedHref.String(), nil
	}

	resolved, err := base.Parse(trimmedHref)
	if err != nil {
		return "", fmt.Errorf("error resolving href '%s' with base '%s': %w", trimmedHref, base.String(), err)
	}
	return resolved.String(), nil
}

// IsAbsoluteHTTP reports whether raw is an absolute http or https URL
func IsAbsoluteHTTP(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// GetBaseDomain returns the registrable domain of hostname using the public
// suffix list, e.g. "example.co.uk" for "www.example.co.uk". Ports are ignored.
func GetBaseDomain(hostname string) (string, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return "", errors.New("hostname is empty")
	}

	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}

	if net.ParseIP(hostname) != nil || !strings.Contains(hostname, ".") {
		return hostname, nil
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		return "", fmt.Errorf("could not determine base domain of '%s': %w", hostname, err)
	}
	return domain, nil
}

// IsSameSite reports whether rawURL is hosted on the same registrable
// domain as siteURL. Unparseable input is never same-site.
func IsSameSite(rawURL, siteURL string) bool {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || target.Hostname() == "" {
		return false
	}
	site, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil || site.Hostname() == "" {
		return false
	}

	targetDomain, err := GetBaseDomain(target.Hostname())
	if err != nil {
		return false
	}
	siteDomain, err := GetBaseDomain(site.Hostname())
	if err != nil {
		return false
	}
	return targetDomain == siteDomain
}

// ValidateURLFormat validates URL format using net/url parsing
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return errors.New("URL is empty")
	}

	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	return nil
}
