package parsers

import (
  "errors"
  "fmt"
  "log"
  "regexp"
  "strconv"
  "strings"
  "time"

  "github.com/PuerkitoBio/goquery"
  "golang.org/x/net/html"

  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/models"
)

// UrlExpander resolves a short link to its destination.
type UrlExpander interface {
  Expand(shortUrl string) (string, error)
}

var (
  imageFilenameRe   = regexp.MustCompile(`/\d+/(.+)/(.+)$`)
  stickerFilenameRe = regexp.MustCompile(`/stickers/stickers/(.+)$`)
  gifFilenameRe     = regexp.MustCompile(`dm_gif/(.+)/(.+)$`)
  backgroundUrlRe   = regexp.MustCompile(`url\('(.*?)'\)`)
)

// MessagesParser turns one raw per-entry HTML fragment into a Message or a
// SystemEntry. Failures are returned, never swallowed; the caller decides
// the fallback policy.
type MessagesParser struct {
  Resolver UrlExpander
}

func (p *MessagesParser) Parse(entryID int64, fragment string) (entry models.Entry, err error) {
  doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
  if err != nil {
    return
  }

  if container := doc.Find("div.DirectMessage-container"); container.Length() > 0 {
    return p.parseMessage(entryID, doc, container.First())
  }
  if notice := doc.Find("div.DMConversationEntry"); notice.Length() > 0 {
    entry = &models.SystemEntry{
      ID:   entryID,
      Text: strings.TrimSpace(notice.First().Text()),
    }
    return
  }

  err = errors.New(fmt.Sprintf("no message container in entry %d", entryID))
  return
}

func (p *MessagesParser) parseMessage(entryID int64, doc *goquery.Document, container *goquery.Selection) (entry models.Entry, err error) {
  avatar := container.Find("img.DMAvatar-image").First()
  if avatar.Length() == 0 {
    err = errors.New(fmt.Sprintf("no avatar in entry %d", entryID))
    return
  }
  author := avatar.AttrOr("alt", "")

  stamp, ok := doc.Find("div.DirectMessage-footer span._timestamp").First().Attr("data-time")
  if !ok {
    err = errors.New(fmt.Sprintf("no timestamp in entry %d", entryID))
    return
  }
  timestamp, err := strconv.ParseInt(stamp, 10, 64)
  if err != nil {
    return
  }

  message := &models.Message{
    ID:        entryID,
    Timestamp: timestamp,
    Author:    author,
  }

  // Attachment container for media/tweet/card elements, content container
  // for text, plus the bare media child some sticker messages use.
  selector := `div.DirectMessage-message > div.DirectMessage-attachmentContainer > div[class^="DirectMessage-"],` +
    `div.DirectMessage-message > div.DirectMessage-contentContainer > div[class^="DirectMessage-"],` +
    `div.DirectMessage-message > div.DirectMessage-media`

  doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
    class := s.AttrOr("class", "")
    switch {
    case strings.Contains(class, "DirectMessage-text"):
      message.Elements = append(message.Elements, p.parseText(s))
    case strings.Contains(class, "DirectMessage-media"):
      message.Elements = append(message.Elements, p.parseMedia(s, entryID, timestamp))
    case strings.Contains(class, "DirectMessage-tweet"):
      var element models.Element
      if element, err = p.parseTweet(s); err != nil {
        return false
      }
      message.Elements = append(message.Elements, element)
    case strings.Contains(class, "DirectMessage-card"):
      var element models.Element
      if element, err = p.parseCard(s); err != nil {
        return false
      }
      message.Elements = append(message.Elements, element)
    default:
      log.Println("unknown element type", class)
    }
    return true
  })
  if err != nil {
    return
  }

  entry = message
  return
}

func (p *MessagesParser) parseText(s *goquery.Selection) models.Element {
  var buf strings.Builder
  for _, node := range s.Find("p.tweet-text").Nodes {
    collectText(node, &buf)
  }
  return &models.TextElement{Text: buf.String()}
}

// collectText walks the inline nodes of a text body in document order.
// Unknown link shapes keep their raw markup so nothing is dropped.
func collectText(node *html.Node, buf *strings.Builder) {
  for child := node.FirstChild; child != nil; child = child.NextSibling {
    switch child.Type {
    case html.TextNode:
      buf.WriteString(child.Data)
    case html.ElementNode:
      if child.Data == "a" {
        class := attr(child, "class")
        switch {
        case strings.Contains(class, "twitter-timeline-link"):
          buf.WriteString(attr(child, "data-expanded-url"))
        case strings.Contains(class, "twitter-hashtag"), strings.Contains(class, "twitter-atreply"):
          buf.WriteString(nodeText(child))
        default:
          html.Render(buf, child)
        }
        continue
      }
      if child.Data == "img" && strings.Contains(attr(child, "class"), "Emoji") {
        buf.WriteString(attr(child, "alt"))
        continue
      }
      collectText(child, buf)
    }
  }
}

// parseMedia recognizes the three media shapes: a plain or sticker image, an
// animated gif served as mp4, and a dm video. Anything else is kept as an
// unknown element instead of failing the whole message.
func (p *MessagesParser) parseMedia(s *goquery.Selection, entryID int64, timestamp int64) models.Element {
  element := &models.MediaElement{
    Type: models.MediaTypeUnknown,
  }
  formatted := time.Unix(timestamp, 0).UTC().Format(config.MEDIA_TIME_LAYOUT)

  if img := s.Find("img").First(); img.Length() > 0 {
    element.Url = img.AttrOr("data-full-img", "")
    element.Alt = img.AttrOr("alt", "")
    if match := imageFilenameRe.FindStringSubmatch(element.Url); match != nil {
      element.Type = models.MediaTypeImage
      element.Filename = fmt.Sprintf("%s-%d-%s-%s", formatted, entryID, match[1], match[2])
    } else if match := stickerFilenameRe.FindStringSubmatch(element.Url); match != nil {
      element.Type = models.MediaTypeSticker
      element.Filename = fmt.Sprintf("sticker-%s", match[1])
    } else {
      log.Println("unknown media type", element.Url)
    }
    return element
  }

  if gif := s.Find("div.PlayableMedia--gif").First(); gif.Length() > 0 {
    element.Type = models.MediaTypeGif
    style := gif.Find("div").First().AttrOr("style", "")
    if match := backgroundUrlRe.FindStringSubmatch(style); match != nil {
      element.PreviewUrl = match[1]
      element.Url = strings.ReplaceAll(
        strings.ReplaceAll(element.PreviewUrl, "dm_gif_preview", "dm_gif"),
        ".jpg",
        ".mp4",
      )
      if match := gifFilenameRe.FindStringSubmatch(element.Url); match != nil {
        element.Filename = fmt.Sprintf("%s-%s-%s", formatted, match[1], match[2])
      }
    }
    return element
  }

  if video := s.Find("div.PlayableMedia--video").First(); video.Length() > 0 {
    element.Type = models.MediaTypeVideo
    style := video.Find("div").First().AttrOr("style", "")
    if match := backgroundUrlRe.FindStringSubmatch(style); match != nil {
      element.PreviewUrl = match[1]
    }
    element.Url = config.TWITTER_DM_VIDEO_URL + strconv.FormatInt(entryID, 10)
    element.DownloadUrl = config.TWITTER_DM_VIDEO_DOWNLOAD_URL + strconv.FormatInt(entryID, 10)
    element.Filename = fmt.Sprintf("%s-%d.mp4", formatted, entryID)
    return element
  }

  log.Println("unknown media shape in entry", entryID)
  return element
}

func (p *MessagesParser) parseTweet(s *goquery.Selection) (element models.Element, err error) {
  link := s.Find("a.QuoteTweet-link").First()
  if link.Length() == 0 {
    err = errors.New("quoted tweet link not found")
    return
  }
  element = &models.TweetElement{
    Url: config.TWITTER_BASE_URL + link.AttrOr("href", ""),
  }
  return
}

func (p *MessagesParser) parseCard(s *goquery.Selection) (element models.Element, err error) {
  card := s.Find(`div[class*="card-type-"]`).First()
  if card.Length() == 0 {
    err = errors.New("card node not found")
    return
  }

  cardElement := &models.CardElement{
    Url:  card.AttrOr("data-card-url", ""),
    Name: card.AttrOr("data-card-name", ""),
  }
  cardElement.ExpandedUrl = cardElement.Url
  if strings.Contains(cardElement.Url, config.TWITTER_SHORT_URL_PREFIX) && p.Resolver != nil {
    expanded, expandErr := p.Resolver.Expand(cardElement.Url)
    if expandErr != nil {
      log.Println(fmt.Sprintf("short url expansion failed for %s, keeping it as is", cardElement.Url), expandErr)
    } else {
      cardElement.ExpandedUrl = expanded
    }
  }

  element = cardElement
  return
}

func attr(node *html.Node, name string) string {
  for _, a := range node.Attr {
    if a.Key == name {
      return a.Val
    }
  }
  return ""
}

func nodeText(node *html.Node) string {
  var buf strings.Builder
  var walk func(*html.Node)
  walk = func(n *html.Node) {
    if n.Type == html.TextNode {
      buf.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
      walk(c)
    }
  }
  walk(node)
  return buf.String()
}
