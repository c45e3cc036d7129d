package models

import (
  "sort"
)

// Conversation accumulates the entries of one crawl run. Entries are
// appended in retrieval order (descending id); Ascending returns the
// chronological view used for the transcript.
type Conversation struct {
  ConversationID string

  entries []Entry
  seen    map[int64]bool
}

func NewConversation(conversationID string) *Conversation {
  return &Conversation{
    ConversationID: conversationID,
    seen:           map[int64]bool{},
  }
}

func (c *Conversation) Append(entry Entry) {
  if c.seen[entry.EntryID()] {
    return
  }
  c.seen[entry.EntryID()] = true
  c.entries = append(c.entries, entry)
}

func (c *Conversation) Size() int {
  return len(c.entries)
}

func (c *Conversation) Ascending() []Entry {
  entries := make([]Entry, len(c.entries))
  copy(entries, c.entries)
  sort.Slice(entries, func(i, j int) bool {
    return entries[i].EntryID() < entries[j].EntryID()
  })
  return entries
}
