package httpclient

import (
	"net/http"
	"time"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// NewDefaultClient creates a simple HTTP client with a timeout
func NewDefaultClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewProxyClient creates an HTTP client that routes through the given
// egress proxy. A nil proxy yields a direct client. Both http and
// socks5 proxy schemes are handled by the transport.
func NewProxyClient(timeout time.Duration, proxy *models.Proxy) *http.Client {
	if proxy == nil {
		return NewDefaultClient(timeout)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyURL(proxy.URL()),
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
