package models

import (
  "fmt"
  "strings"
  "time"

  "scraper.local/dm-archiver/config"
)

// Entry is either a Message or a SystemEntry.
type Entry interface {
  EntryID() int64
  Line() string
}

// Message is one direct message event. Immutable once parsed.
type Message struct {
  ID        int64
  Timestamp int64
  Author    string
  Elements  []Element
}

func (m *Message) EntryID() int64 {
  return m.ID
}

func (m *Message) Line() string {
  parts := make([]string, 0, len(m.Elements))
  for _, element := range m.Elements {
    parts = append(parts, element.Render())
  }
  formatted := time.Unix(m.Timestamp, 0).UTC().Format(config.TRANSCRIPT_TIME_LAYOUT)
  return strings.TrimRight(fmt.Sprintf("[%s] %s %s", formatted, m.Author, strings.Join(parts, " ")), " ")
}

// SystemEntry is a non-message conversation event, such as a user joining a
// group or the group being renamed. It also carries the fallback payload for
// entries that failed to parse.
type SystemEntry struct {
  ID   int64
  Text string
}

func (e *SystemEntry) EntryID() int64 {
  return e.ID
}

func (e *SystemEntry) Line() string {
  return fmt.Sprintf("[DMConversationEntry] %s", e.Text)
}
