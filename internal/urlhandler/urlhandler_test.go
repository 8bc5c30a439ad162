package urlhandler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://claude.ai")
	require.NoError(t, err)

	tests := []struct {
		name     string
		href     string
		base     *url.URL
		expected string
		wantErr  bool
	}{
		{name: "relative path", href: "/directory/abc", base: base, expected: "https://claude.ai/directory/abc"},
		{name: "absolute passes through", href: "https://other.example/x", base: base, expected: "https://other.example/x"},
		{name: "whitespace trimmed", href: "  /directory/abc ", base: base, expected: "https://claude.ai/directory/abc"},
		{name: "empty href", href: " ", base: base, wantErr: true},
		{name: "relative without base", href: "/directory/abc", wantErr: true},
		{name: "absolute without base", href: "https://claude.ai/x", expected: "https://claude.ai/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.href, tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetBaseDomain(t *testing.T) {
	tests := map[string]string{
		"claude.ai":          "claude.ai",
		"www.claude.ai":      "claude.ai",
		"docs.example.co.uk": "example.co.uk",
		"Example.COM:8443":   "example.com",
		"localhost":          "localhost",
		"127.0.0.1":          "127.0.0.1",
	}
	for input, want := range tests {
		got, err := GetBaseDomain(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := GetBaseDomain("")
	assert.Error(t, err)
}

func TestIsSameSite(t *testing.T) {
	assert.True(t, IsSameSite("https://claude.ai/directory/x", "https://claude.ai"))
	assert.True(t, IsSameSite("https://support.claude.ai/help", "https://claude.ai"))
	assert.False(t, IsSameSite("https://acme.example/about", "https://claude.ai"))
	assert.False(t, IsSameSite("not a url", "https://claude.ai"))
	assert.False(t, IsSameSite("/relative", "https://claude.ai"))
}

func TestIsAbsoluteHTTP(t *testing.T) {
	assert.True(t, IsAbsoluteHTTP("https://a.example"))
	assert.True(t, IsAbsoluteHTTP("HTTP://a.example"))
	assert.False(t, IsAbsoluteHTTP("/relative"))
	assert.False(t, IsAbsoluteHTTP("mailto:a@b.example"))
}

func TestValidateURLFormat(t *testing.T) {
	assert.NoError(t, ValidateURLFormat("https://claude.ai/directory"))
	assert.Error(t, ValidateURLFormat(""))
	assert.Error(t, ValidateURLFormat("not a url"))
}
