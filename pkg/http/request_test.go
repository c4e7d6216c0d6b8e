package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_RemoteAddrByDefault(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	ip := ExtractClientIP(req, &IPConfig{})

	assert.Equal(t, "203.0.113.7", ip)
}

func TestExtractClientIP_TrustedProxyHonorsXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.5")

	ip := ExtractClientIP(req, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "198.51.100.1", ip)
}

func TestExtractClientIP_TrustedProxyFallsBackToXRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Real-IP", "198.51.100.2")

	ip := ExtractClientIP(req, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "198.51.100.2", ip)
}

func TestExtractClientIP_GarbageXFFIgnored(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Forwarded-For", "not-an-ip, also-bad")

	ip := ExtractClientIP(req, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "10.0.0.5", ip)
}

func TestExtractClientIP_UntrustedPeerCannotSpoof(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")

	ip := ExtractClientIP(req, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "203.0.113.7", ip)
}

func TestExtractClientIP_NilConfig(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"

	ip := ExtractClientIP(req, nil)

	assert.Equal(t, "203.0.113.7", ip)
}

func TestExtractClientIP_NoPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7"

	ip := ExtractClientIP(req, nil)

	assert.Equal(t, "203.0.113.7", ip)
}
