package download

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Proxy describes an optional HTTP proxy for the download engine's client.
type Proxy struct {
	Host     string
	Port     int
	Username string
	Password string
}

// cacheDisablingTransport adds no-cache headers to every outgoing request
// before delegating to the wrapped transport.
type cacheDisablingTransport struct {
	base http.RoundTripper
}

func (t *cacheDisablingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	return t.base.RoundTrip(req)
}

// NewClient builds the HTTP client used by the download engine: caching
// disabled, a 30s connect timeout, a 15s read (response header) timeout,
// and retries delegated to retryablehttp. Proxy may be nil.
func NewClient(retries int, proxy *Proxy) *http.Client {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	base := &http.Transport{
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	if proxy != nil {
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   fmt.Sprintf("%s:%d", proxy.Host, proxy.Port),
		}
		if proxy.Username != "" {
			proxyURL.User = url.UserPassword(proxy.Username, proxy.Password)
		}
		base.Proxy = http.ProxyURL(proxyURL)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Transport = &cacheDisablingTransport{base: base}
	client.HTTPClient.Timeout = 0 // per-item retry loop governs overall duration

	return client.StandardClient()
}
