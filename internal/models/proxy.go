package models

import "net/url"

// ProxyProtocol is the egress protocol of a proxy endpoint.
type ProxyProtocol string

const (
	ProxyHTTP   ProxyProtocol = "http"
	ProxySOCKS5 ProxyProtocol = "socks5"
)

// Proxy is the immutable lease handed to a fetch attempt. Health state
// lives inside the proxy pool and is never exposed to callers.
type Proxy struct {
	Address  string        `json:"address"`
	Protocol ProxyProtocol `json:"protocol"`
}

// URL returns the proxy endpoint as a URL suitable for http.Transport.
func (p *Proxy) URL() *url.URL {
	return &url.URL{
		Scheme: string(p.Protocol),
		Host:   p.Address,
	}
}
