package models

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestMessageLineJoinsElements(t *testing.T) {
  message := &Message{
    ID:        755,
    Timestamp: 1609459200,
    Author:    "alice",
    Elements: []Element{
      &TextElement{Text: "look at this"},
      &TweetElement{Url: "https://twitter.com/bob/status/123"},
    },
  }
  assert.Equal(
    t,
    "[2021-01-01 00:00:00] alice look at this [Tweet] https://twitter.com/bob/status/123",
    message.Line(),
  )
}

func TestMessageLineTrimsTrailingSpace(t *testing.T) {
  message := &Message{
    ID:        755,
    Timestamp: 1609459200,
    Author:    "alice",
    Elements:  []Element{&TextElement{Text: ""}},
  }
  assert.Equal(t, "[2021-01-01 00:00:00] alice", message.Line())
}

func TestMediaElementRenderVariants(t *testing.T) {
  withPreview := &MediaElement{
    Type:       MediaTypeVideo,
    Url:        "https://twitter.com/i/videos/dm/755",
    PreviewUrl: "https://pbs.twimg.com/preview.jpg",
  }
  assert.Equal(
    t,
    "[Media-video] https://twitter.com/i/videos/dm/755 [Media-preview] https://pbs.twimg.com/preview.jpg",
    withPreview.Render(),
  )

  withAlt := &MediaElement{
    Type: MediaTypeImage,
    Url:  "https://ton.twitter.com/photo.jpg",
    Alt:  "a sunset",
  }
  assert.Equal(t, "[Media-image] [a sunset] https://ton.twitter.com/photo.jpg", withAlt.Render())

  plain := &MediaElement{
    Type: MediaTypeSticker,
    Url:  "https://ton.twitter.com/smile.png",
  }
  assert.Equal(t, "[Media-sticker] https://ton.twitter.com/smile.png", plain.Render())
}

func TestConversationDedupesAndSorts(t *testing.T) {
  conversation := NewConversation("4242")
  conversation.Append(&SystemEntry{ID: 105, Text: "c"})
  conversation.Append(&SystemEntry{ID: 101, Text: "a"})
  conversation.Append(&SystemEntry{ID: 105, Text: "duplicate"})
  conversation.Append(&SystemEntry{ID: 103, Text: "b"})

  assert.Equal(t, 3, conversation.Size())

  entries := conversation.Ascending()
  ids := make([]int64, len(entries))
  for i, entry := range entries {
    ids[i] = entry.EntryID()
  }
  assert.Equal(t, []int64{101, 103, 105}, ids)
}
