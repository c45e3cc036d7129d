package repositories

import (
  "errors"
  "fmt"
  "net/http"
)

// ResolverRepository expands a short link by reading the redirect target.
// Its client must not follow redirects.
type ResolverRepository struct {
  HttpClient *http.Client
}

func (r *ResolverRepository) Expand(shortUrl string) (location string, err error) {
  req, err := http.NewRequest("GET", shortUrl, nil)
  if err != nil {
    return
  }
  resp, err := r.HttpClient.Do(req)
  if err != nil {
    return
  }
  defer resp.Body.Close()

  location = resp.Header.Get("Location")
  if location == "" {
    err = errors.New(fmt.Sprintf("no redirect location for %s", shortUrl))
  }
  return
}
