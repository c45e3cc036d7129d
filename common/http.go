package common

import (
  "context"
  "fmt"
  "net"
  "net/http"
  "time"

  "github.com/corpix/uarand"
  "golang.org/x/time/rate"
  "h12.io/socks"
)

type ProxySession struct {
  Proxy string
}

func (s *ProxySession) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
  return socks.Dial(s.Proxy)(network, addr)
}

// NewHttpClient returns the shared client for a session. A slot greater than
// zero routes through the local socks5 proxy bound to port 2080+slot.
func NewHttpClient(slot int) *http.Client {
  tr := &http.Transport{
    DisableKeepAlives: true,
  }
  if slot > 0 {
    tr.DialContext = (&ProxySession{
      Proxy: fmt.Sprintf("socks5://127.0.0.1:%d?timeout=30s", 2080+slot),
    }).DialContext
  } else {
    tr.DialContext = (&net.Dialer{}).DialContext
  }

  return &http.Client{
    Transport: tr,
    Timeout:   time.Duration(15) * time.Second,
  }
}

// NewNoRedirectHttpClient is used where the redirect target itself is the
// answer, such as short link expansion.
func NewNoRedirectHttpClient(slot int) *http.Client {
  httpClient := NewHttpClient(slot)
  httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
    return http.ErrUseLastResponse
  }
  return httpClient
}

// NewLimiter converts an inter-request delay in seconds into a limiter.
func NewLimiter(delay float64) *rate.Limiter {
  if delay <= 0 {
    return rate.NewLimiter(rate.Inf, 1)
  }
  return rate.NewLimiter(rate.Limit(1/delay), 1)
}

func DefaultUserAgent() string {
  return uarand.GetRandom()
}
