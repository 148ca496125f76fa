package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitraverify/verifyd/src/types"
)

func TestShouldAutoScan(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "exact social domain", url: "https://twitter.com/user/status/1", want: true},
		{name: "www prefix stripped", url: "https://www.facebook.com/groups/x", want: true},
		{name: "whatsapp web", url: "https://web.whatsapp.com/", want: true},
		{name: "news fragment", url: "https://timesofindia.indiatimes.com/article", want: true},
		{name: "express fragment", url: "https://indianexpress.com/story", want: true},
		{name: "plain site", url: "https://example.com/", want: false},
		{name: "subdomain of social not exact", url: "https://api.twitter.com/", want: false},
		{name: "chrome internal", url: "chrome://settings", want: false},
		{name: "not a url", url: "::::", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldAutoScan(tt.url))
		})
	}
}

func TestSiteEnabled(t *testing.T) {
	cfg := types.UserSettings{SiteEnabled: map[string]bool{
		"facebook.com": false,
		"x.com":        true,
	}}

	assert.False(t, SiteEnabled(cfg, "https://www.facebook.com/feed"))
	assert.True(t, SiteEnabled(cfg, "https://x.com/home"))
	assert.True(t, SiteEnabled(cfg, "https://twitter.com/home"), "absent hosts default to enabled")
}
