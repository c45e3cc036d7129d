package repositories

import (
  "context"
  "errors"
  "fmt"
  "io"
  "log"
  "net/http"
  "os"

  "github.com/rs/xid"
  "github.com/tidwall/gjson"
  "golang.org/x/time/rate"

  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/models"
)

// ErrAccountLocked is raised when the remote side flags the crawl as abuse
// (error code 326) and locks the account until it is manually unlocked.
var ErrAccountLocked = errors.New("account temporarily locked by twitter")

// ConversationPage is one page of a conversation history: raw per-entry HTML
// fragments keyed by entry id, plus the cursor for the next request.
type ConversationPage struct {
  Items      map[string]string
  MinEntryID string
  LastPage   bool
}

type InboxRepository struct {
  Session    *models.Session
  HttpClient *http.Client
  Limiter    *rate.Limiter
  BaseUrl    string
  Raw        bool
}

// ListThreads walks the inbox listing until has_more turns false. The first
// response nests the payload under "inner", every following page is flat;
// inboxRoot hides that quirk from the rest of the loop. A response whose
// shape is not recognized ends the walk with whatever was collected.
func (r *InboxRepository) ListThreads(ctx context.Context) (threads []*models.Thread, err error) {
  var capture *os.File
  if r.Raw {
    if capture, err = os.Create(fmt.Sprintf("conversation-list-%s.txt", xid.New().String())); err != nil {
      return
    }
    defer capture.Close()
  }

  requestUrl := r.BaseUrl + config.TWITTER_MESSAGES_PATH
  params := map[string]string{}
  first := true

  for {
    if err = r.Limiter.Wait(ctx); err != nil {
      return
    }

    var body []byte
    if body, err = r.get(ctx, requestUrl, params); err != nil {
      return
    }
    if capture != nil {
      capture.Write(body)
    }
    if err = responseErrors(body); err != nil {
      return
    }

    root := inboxRoot(body, first)
    first = false
    if !root.Exists() || !root.Get("threads").Exists() {
      log.Println("inbox response shape not recognized, keeping the threads collected so far")
      break
    }

    root.Get("threads").ForEach(func(_, s gjson.Result) bool {
      thread := &models.Thread{
        ThreadID: s.Get("thread_id").String(),
      }
      s.Get("participants").ForEach(func(_, p gjson.Result) bool {
        thread.Participants = append(thread.Participants, p.Get("user_id").String())
        return true
      })
      threads = append(threads, thread)
      return true
    })

    if !root.Get("has_more").Bool() {
      break
    }
    minEntryID := root.Get("min_entry_id").String()
    if minEntryID == "" {
      break
    }

    requestUrl = r.BaseUrl + config.TWITTER_INBOX_PATH
    params = map[string]string{
      "is_trusted":   "true",
      "max_entry_id": minEntryID,
    }
  }

  return
}

// FetchConversationPage requests one page of a conversation. A response
// without min_entry_id marks the beginning of the thread, which is a normal
// terminal condition and not an error.
func (r *InboxRepository) FetchConversationPage(ctx context.Context, conversationID string, maxEntryID string) (page *ConversationPage, err error) {
  if err = r.Limiter.Wait(ctx); err != nil {
    return
  }

  params := map[string]string{
    "id": conversationID,
  }
  if maxEntryID != "" {
    params["max_entry_id"] = maxEntryID
  }

  body, err := r.get(ctx, r.BaseUrl+config.TWITTER_CONVERSATION_PATH, params)
  if err != nil {
    return
  }
  if err = responseErrors(body); err != nil {
    return
  }

  page = &ConversationPage{
    Items: map[string]string{},
  }
  if !gjson.GetBytes(body, "min_entry_id").Exists() {
    page.LastPage = true
    return
  }
  page.MinEntryID = gjson.GetBytes(body, "min_entry_id").String()
  gjson.GetBytes(body, "items").ForEach(func(key, value gjson.Result) bool {
    page.Items[key.String()] = value.String()
    return true
  })

  return
}

func (r *InboxRepository) get(ctx context.Context, requestUrl string, params map[string]string) (body []byte, err error) {
  req, err := http.NewRequestWithContext(ctx, "GET", requestUrl, nil)
  if err != nil {
    return
  }
  req.Header.Set("User-Agent", r.Session.Agent)
  req.Header.Set("cookie", r.Session.Cookie)
  req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
  req.Header.Set("X-Requested-With", "XMLHttpRequest")

  q := req.URL.Query()
  for key, val := range params {
    q.Add(key, val)
  }
  req.URL.RawQuery = q.Encode()

  resp, err := r.HttpClient.Do(req)
  if err != nil {
    return
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    err = errors.New(
      fmt.Sprintf(
        "request error: account[%s] status[%s] code[%d]",
        r.Session.Account,
        resp.Status,
        resp.StatusCode,
      ),
    )
    return
  }

  body, err = io.ReadAll(resp.Body)
  return
}

func inboxRoot(body []byte, first bool) gjson.Result {
  if first {
    return gjson.GetBytes(body, "inner.trusted")
  }
  return gjson.GetBytes(body, "trusted")
}

func responseErrors(body []byte) error {
  result := gjson.GetBytes(body, "errors")
  if !result.Exists() {
    return nil
  }
  code := result.Get("0.code").Int()
  message := result.Get("0.message").String()
  log.Println(fmt.Sprintf("twitter error: code[%d] message[%s]", code, message))
  if code == config.TWITTER_ERROR_ACCOUNT_LOCKED {
    return ErrAccountLocked
  }
  return errors.New(fmt.Sprintf("twitter error: code[%d] message[%s]", code, message))
}
