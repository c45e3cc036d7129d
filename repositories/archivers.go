package repositories

import (
  "context"
  "errors"
  "fmt"
  "log"
  "os"
  "sort"
  "strconv"

  "github.com/rs/xid"

  "scraper.local/dm-archiver/models"
  "scraper.local/dm-archiver/repositories/parsers"
)

// ArchiversRepository drives one crawl run: resume marker, page loop,
// per-entry parsing, media side effects, and the final write-back.
type ArchiversRepository struct {
  Inbox       *InboxRepository
  Parser      *parsers.MessagesParser
  Media       *MediaRepository
  Transcripts *TranscriptsRepository
  Raw         bool
}

// Crawl archives one conversation. An interrupt at any blocking point stops
// further requests but still writes the accumulated chronological prefix:
// the transcript never reflects a half-processed page and never skips the
// write-back for anything short of a write-back failure.
func (r *ArchiversRepository) Crawl(ctx context.Context, conversationID string) (err error) {
  log.Println(fmt.Sprintf("starting crawl of '%s'", conversationID))

  maxID, err := r.Transcripts.ReadMarker(conversationID)
  if err != nil {
    return
  }

  var capture *os.File
  if r.Raw {
    if capture, err = os.Create(fmt.Sprintf("%s-raw-%s.txt", conversationID, xid.New().String())); err != nil {
      return
    }
    defer capture.Close()
  }

  conversation := models.NewConversation(conversationID)
  cursor := ""
  var crawlErr error

loop:
  for {
    if ctx.Err() != nil {
      log.Println("interruption requested, writing the conversation")
      break
    }

    page, pageErr := r.Inbox.FetchConversationPage(ctx, conversationID, cursor)
    if pageErr != nil {
      if errors.Is(pageErr, context.Canceled) {
        log.Println("interruption requested, writing the conversation")
      } else {
        crawlErr = pageErr
      }
      break
    }
    if page.LastPage {
      log.Println("begin of thread reached")
      break
    }
    cursor = page.MinEntryID

    // Remote ordering is not guaranteed, process newest first so the stop
    // marker check sees ids in descending order.
    ids := make([]int64, 0, len(page.Items))
    for key := range page.Items {
      id, parseErr := strconv.ParseInt(key, 10, 64)
      if parseErr != nil {
        log.Println("skipping entry with a non-numeric id", key)
        continue
      }
      ids = append(ids, id)
    }
    sort.Slice(ids, func(i, j int) bool {
      return ids[i] > ids[j]
    })

    for _, id := range ids {
      if ctx.Err() != nil {
        log.Println("interruption requested, writing the conversation")
        break loop
      }
      if maxID > 0 && id == maxID {
        log.Println("previous tweet limit found")
        break loop
      }

      fragment := page.Items[strconv.FormatInt(id, 10)]
      if capture != nil {
        capture.WriteString(fragment)
      }

      entry, parseErr := r.Parser.Parse(id, fragment)
      if parseErr != nil {
        log.Println(fmt.Sprintf("unexpected error for tweet '%d', raw HTML will be used", id), parseErr)
        entry = &models.SystemEntry{
          ID:   id,
          Text: fmt.Sprintf("[ParseError] Parsing of tweet '%d' failed. Raw HTML: %s", id, fragment),
        }
      }

      if message, ok := entry.(*models.Message); ok && r.Media != nil {
        for _, element := range message.Elements {
          media, ok := element.(*models.MediaElement)
          if !ok {
            continue
          }
          if mediaErr := r.Media.Download(ctx, conversationID, media); mediaErr != nil {
            log.Println(fmt.Sprintf("media write failed for %s", media.Filename), mediaErr)
          }
        }
      }

      conversation.Append(entry)
    }
  }

  log.Println("total processed tweets:", conversation.Size())
  log.Println(fmt.Sprintf("writing conversation to %s", r.Transcripts.Filename(conversationID)))

  if writeErr := r.Transcripts.WriteBack(conversationID, conversation.Ascending(), maxID > 0); writeErr != nil {
    return writeErr
  }
  return crawlErr
}
