package urlcheck

import (
	"net/http"
	"net/url"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// newTransport builds the probe transport. Explicit proxy settings win
// over the process environment.
func newTransport(cfg model.HTTPConfig) *http.Transport {
	return &http.Transport{Proxy: proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)}
}

func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
