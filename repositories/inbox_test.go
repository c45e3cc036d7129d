package repositories

import (
  "context"
  "fmt"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scraper.local/dm-archiver/common"
  "scraper.local/dm-archiver/models"
)

func newInboxRepository(server *httptest.Server) *InboxRepository {
  return &InboxRepository{
    Session: &models.Session{
      Account: "alice",
      Agent:   "test-agent",
      Cookie:  "auth_token=secret",
    },
    HttpClient: server.Client(),
    Limiter:    common.NewLimiter(0),
    BaseUrl:    server.URL,
  }
}

func TestListThreadsAcrossBothEnvelopes(t *testing.T) {
  var inboxCalls int
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    switch r.URL.Path {
    case "/messages":
      fmt.Fprint(w, `{
        "inner": {
          "trusted": {
            "threads": [
              {"thread_id": "900", "participants": [{"user_id": "1"}, {"user_id": "2"}]}
            ],
            "has_more": true,
            "min_entry_id": "50"
          }
        }
      }`)
    case "/inbox/paginate":
      inboxCalls++
      assert.Equal(t, "true", r.URL.Query().Get("is_trusted"))
      assert.Equal(t, "50", r.URL.Query().Get("max_entry_id"))
      fmt.Fprint(w, `{
        "trusted": {
          "threads": [
            {"thread_id": "901", "participants": [{"user_id": "3"}]}
          ],
          "has_more": false
        }
      }`)
    default:
      t.Errorf("unexpected path %s", r.URL.Path)
    }
  }))
  defer server.Close()

  threads, err := newInboxRepository(server).ListThreads(context.Background())
  require.NoError(t, err)
  require.Len(t, threads, 2)
  assert.Equal(t, "900", threads[0].ThreadID)
  assert.Equal(t, []string{"1", "2"}, threads[0].Participants)
  assert.Equal(t, "901", threads[1].ThreadID)
  assert.Equal(t, []string{"3"}, threads[1].Participants)
  assert.Equal(t, 1, inboxCalls)
}

func TestListThreadsUnrecognizedShapeKeepsCollected(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    switch r.URL.Path {
    case "/messages":
      fmt.Fprint(w, `{
        "inner": {
          "trusted": {
            "threads": [{"thread_id": "900", "participants": []}],
            "has_more": true,
            "min_entry_id": "50"
          }
        }
      }`)
    default:
      fmt.Fprint(w, `{"something": "else"}`)
    }
  }))
  defer server.Close()

  threads, err := newInboxRepository(server).ListThreads(context.Background())
  require.NoError(t, err)
  require.Len(t, threads, 1)
  assert.Equal(t, "900", threads[0].ThreadID)
}

func TestListThreadsAccountLocked(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    fmt.Fprint(w, `{"errors": [{"code": 326, "message": "your account is locked"}]}`)
  }))
  defer server.Close()

  _, err := newInboxRepository(server).ListThreads(context.Background())
  assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestListThreadsOtherErrorCode(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    fmt.Fprint(w, `{"errors": [{"code": 88, "message": "rate limit exceeded"}]}`)
  }))
  defer server.Close()

  _, err := newInboxRepository(server).ListThreads(context.Background())
  require.Error(t, err)
  assert.NotErrorIs(t, err, ErrAccountLocked)
  assert.Contains(t, err.Error(), "code[88]")
}

func TestFetchConversationPage(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    assert.Equal(t, "/messages/with/conversation", r.URL.Path)
    assert.Equal(t, "4242", r.URL.Query().Get("id"))
    assert.Equal(t, "200", r.URL.Query().Get("max_entry_id"))
    assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
    assert.Equal(t, "auth_token=secret", r.Header.Get("cookie"))
    fmt.Fprint(w, `{
      "min_entry_id": "99",
      "items": {
        "100": "<div class=\"DMConversationEntry\">a</div>",
        "99": "<div class=\"DMConversationEntry\">b</div>"
      }
    }`)
  }))
  defer server.Close()

  page, err := newInboxRepository(server).FetchConversationPage(context.Background(), "4242", "200")
  require.NoError(t, err)
  assert.False(t, page.LastPage)
  assert.Equal(t, "99", page.MinEntryID)
  require.Len(t, page.Items, 2)
  assert.Equal(t, `<div class="DMConversationEntry">a</div>`, page.Items["100"])
}

func TestFetchConversationPageBeginOfThread(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    fmt.Fprint(w, `{}`)
  }))
  defer server.Close()

  page, err := newInboxRepository(server).FetchConversationPage(context.Background(), "4242", "")
  require.NoError(t, err)
  assert.True(t, page.LastPage)
}

func TestFetchConversationPageHttpError(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusForbidden)
  }))
  defer server.Close()

  _, err := newInboxRepository(server).FetchConversationPage(context.Background(), "4242", "")
  require.Error(t, err)
  assert.Contains(t, err.Error(), "account[alice]")
  assert.Contains(t, err.Error(), "code[403]")
}
