package v1

import (
  "net/http"
  "strconv"

  "github.com/go-chi/chi/v5"

  "scraper.local/dm-archiver/api"
  "scraper.local/dm-archiver/repositories"
)

type ConversationsHandler struct {
  Response   *api.ResponseHandler
  Repository *repositories.TranscriptsRepository
}

type ConversationInfo struct {
  ConversationID string `json:"conversation_id"`
  LatestTweetID  string `json:"latest_tweet_id"`
}

func NewConversationsRouter(dir string) http.Handler {
  h := ConversationsHandler{
    Repository: &repositories.TranscriptsRepository{
      Dir: dir,
    },
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Get("/{conversationID}", h.Show)
  return r
}

func (h *ConversationsHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  ids, err := h.Repository.Listings()
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }

  data := make([]*ConversationInfo, len(ids))
  for i, id := range ids {
    info := &ConversationInfo{
      ConversationID: id,
    }
    if maxID, err := h.Repository.ReadMarker(id); err == nil && maxID > 0 {
      info.LatestTweetID = strconv.FormatInt(maxID, 10)
    }
    data[i] = info
  }

  h.Response.Json(data)
}

func (h *ConversationsHandler) Show(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  conversationID := chi.URLParam(r, "conversationID")
  if conversationID == "" {
    h.Response.Error(http.StatusForbidden, 1004, "conversation id is empty")
    return
  }

  var current int
  if !r.URL.Query().Has("current") {
    current = 1
  } else {
    current, _ = strconv.Atoi(r.URL.Query().Get("current"))
  }
  if current < 1 {
    h.Response.Error(http.StatusForbidden, 1004, "current not valid")
    return
  }

  var pageSize int
  if !r.URL.Query().Has("page_size") {
    pageSize = 50
  } else {
    pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
  }
  if pageSize < 1 || pageSize > 1000 {
    h.Response.Error(http.StatusForbidden, 1004, "page size not valid")
    return
  }

  lines, err := h.Repository.Lines(conversationID)
  if err != nil {
    h.Response.Error(http.StatusForbidden, 1004, "conversation not exists")
    return
  }

  total := int64(len(lines))
  offset := (current - 1) * pageSize
  if offset > len(lines) {
    offset = len(lines)
  }
  end := offset + pageSize
  if end > len(lines) {
    end = len(lines)
  }

  h.Response.Pagenate(lines[offset:end], total, current, pageSize)
}
