package models

import (
  "fmt"
)

type MediaType int

const (
  MediaTypeImage MediaType = iota + 1
  MediaTypeGif
  MediaTypeVideo
  MediaTypeSticker
  MediaTypeUnknown
)

func (t MediaType) String() string {
  switch t {
  case MediaTypeImage:
    return "image"
  case MediaTypeGif:
    return "gif"
  case MediaTypeVideo:
    return "video"
  case MediaTypeSticker:
    return "sticker"
  }
  return "unknown"
}

// Element is one content unit inside a Message: a text run, an embedded
// media, a quoted tweet reference or a link preview card.
type Element interface {
  Render() string
}

type TextElement struct {
  Text string
}

func (e *TextElement) Render() string {
  return e.Text
}

type TweetElement struct {
  Url string
}

func (e *TweetElement) Render() string {
  return fmt.Sprintf("[Tweet] %s", e.Url)
}

type CardElement struct {
  Url         string
  Name        string
  ExpandedUrl string
}

func (e *CardElement) Render() string {
  return fmt.Sprintf("[Card-%s] %s", e.Name, e.ExpandedUrl)
}

type MediaElement struct {
  Type       MediaType
  Url        string
  PreviewUrl string
  Alt        string

  // Filename is computed once at parse time so downloads are reproducible.
  Filename string
  // DownloadUrl differs from Url for videos, where the playable page and the
  // downloadable resource live on different endpoints.
  DownloadUrl string
}

func (e *MediaElement) Render() string {
  if e.PreviewUrl != "" {
    return fmt.Sprintf("[Media-%s] %s [Media-preview] %s", e.Type, e.Url, e.PreviewUrl)
  }
  if e.Alt != "" {
    return fmt.Sprintf("[Media-%s] [%s] %s", e.Type, e.Alt, e.Url)
  }
  return fmt.Sprintf("[Media-%s] %s", e.Type, e.Url)
}
