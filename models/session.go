package models

// Session carries the durable fields of an authenticated browser session.
// It is persisted as versioned JSON instead of an opaque client dump so the
// on-disk format survives http client internals changing.
type Session struct {
  Version int    `json:"version"`
  Account string `json:"account"`
  Agent   string `json:"agent"`
  Cookie  string `json:"cookie"`
  Slot    int    `json:"slot"`
}
