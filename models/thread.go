package models

// Thread is one conversation summary from the inbox listing.
type Thread struct {
  ThreadID     string
  Participants []string
}
