package dispatch

import (
	"net/url"
	"strings"

	"github.com/mitraverify/verifyd/src/types"
)

// Domains where auto-scan always applies: the social and messaging platforms
// misinformation spreads through first.
var scanDomains = map[string]struct{}{
	"facebook.com":     {},
	"m.facebook.com":   {},
	"twitter.com":      {},
	"x.com":            {},
	"instagram.com":    {},
	"youtube.com":      {},
	"reddit.com":       {},
	"web.whatsapp.com": {},
	"web.telegram.org": {},
	"sharechat.com":    {},
}

// Name fragments that identify news sites without enumerating them.
var newsFragments = []string{
	"news", "times", "express", "herald", "tribune", "chronicle", "daily", "gazette",
}

// ShouldAutoScan gates automatic scanning on the tab's domain: an exact match
// against the social/messaging set, or a news-name fragment in the host.
func ShouldAutoScan(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return false
	}

	if _, ok := scanDomains[host]; ok {
		return true
	}
	for _, fragment := range newsFragments {
		if strings.Contains(host, fragment) {
			return true
		}
	}
	return false
}

// SiteEnabled honors the per-site override map; absent hosts default to
// enabled.
func SiteEnabled(cfg types.UserSettings, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if enabled, ok := cfg.SiteEnabled[host]; ok {
		return enabled
	}
	return true
}
