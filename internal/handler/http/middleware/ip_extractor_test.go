package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteAddrExtractor(t *testing.T) {
	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{"192.168.1.1:54321", "192.168.1.1", false},
		{"[2001:db8::1]:8080", "2001:db8::1", false},
		{"127.0.0.1", "127.0.0.1", false},
		{"not-an-address", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.addr

			got, err := RemoteAddrExtractor{}.ExtractIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.1 ", "", "2001:db8::/32"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "192.168.1.1/32", got[1].String())

	_, err = ParseTrustedProxies([]string{"10.0.0.300"})
	assert.Error(t, err)
}

func TestNewIPExtractor(t *testing.T) {
	assert.IsType(t, RemoteAddrExtractor{}, NewIPExtractor(nil))

	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	assert.IsType(t, &TrustedProxyExtractor{}, NewIPExtractor(proxies))
}

func TestTrustedProxyExtractor(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	e := NewIPExtractor(proxies)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"trusted proxy uses first forwarded ip", "10.1.2.3:443", "203.0.113.9, 10.1.2.3", "", "203.0.113.9"},
		{"trusted proxy falls back to x-real-ip", "10.1.2.3:443", "", "203.0.113.10", "203.0.113.10"},
		{"trusted proxy with garbage headers", "10.1.2.3:443", "garbage", "", "10.1.2.3"},
		{"untrusted peer ignores headers", "198.51.100.7:5000", "203.0.113.9", "203.0.113.10", "198.51.100.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			got, err := e.ExtractIP(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
