package repositories

import (
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "os"
  "path/filepath"

  "scraper.local/dm-archiver/common"
  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/models"
)

type SessionsRepository struct {
  Dir string
}

func (r *SessionsRepository) Path() string {
  return filepath.Join(r.Dir, config.SESSION_FILENAME)
}

func (r *SessionsRepository) Load() (session *models.Session, err error) {
  content, err := os.ReadFile(r.Path())
  if err != nil {
    if errors.Is(err, os.ErrNotExist) {
      err = errors.New("session file not found, run the sessions apply command first")
    }
    return
  }
  if err = json.Unmarshal(content, &session); err != nil {
    return
  }
  if session.Version != config.SESSION_VERSION {
    err = errors.New(fmt.Sprintf("session file version not supported: %d", session.Version))
    session = nil
  }
  return
}

func (r *SessionsRepository) Apply(account string, cookie string, slot int) (session *models.Session, err error) {
  session = &models.Session{
    Version: config.SESSION_VERSION,
    Account: account,
    Agent:   common.DefaultUserAgent(),
    Cookie:  cookie,
    Slot:    slot,
  }
  err = r.Save(session)
  return
}

func (r *SessionsRepository) Save(session *models.Session) (err error) {
  content, err := json.MarshalIndent(session, "", "  ")
  if err != nil {
    return
  }
  return os.WriteFile(r.Path(), content, 0600)
}

// Verify probes the messages inbox without following redirects. An expired
// cookie bounces to the login page instead of answering 200.
func (r *SessionsRepository) Verify(session *models.Session) (err error) {
  httpClient := common.NewNoRedirectHttpClient(session.Slot)

  req, err := http.NewRequest("GET", config.TWITTER_BASE_URL+config.TWITTER_MESSAGES_PATH, nil)
  if err != nil {
    return
  }
  req.Header.Set("User-Agent", session.Agent)
  req.Header.Set("cookie", session.Cookie)

  resp, err := httpClient.Do(req)
  if err != nil {
    return
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    return errors.New(
      fmt.Sprintf(
        "session check failed: account[%s] status[%s] code[%d]",
        session.Account,
        resp.Status,
        resp.StatusCode,
      ),
    )
  }
  return
}
