package repositories

import (
  "context"
  "net/http"
  "net/http/httptest"
  "os"
  "path/filepath"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scraper.local/dm-archiver/models"
)

var pngPayload = append(
  []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
  []byte("not a real image body")...,
)

func newMediaRepository(server *httptest.Server) *MediaRepository {
  return &MediaRepository{
    Session: &models.Session{
      Agent:  "test-agent",
      Cookie: "auth_token=secret",
    },
    HttpClient:     server.Client(),
    DownloadImages: true,
    DownloadGifs:   true,
    DownloadVideos: true,
  }
}

func TestMediaDownloadWritesCategoryFile(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write(pngPayload)
  }))
  defer server.Close()

  conversationDir := filepath.Join(t.TempDir(), "4242")
  element := &models.MediaElement{
    Type:     models.MediaTypeImage,
    Url:      server.URL + "/photo.png",
    Filename: "20210101-000000-1-media-photo.png",
  }
  require.NoError(t, newMediaRepository(server).Download(context.Background(), conversationDir, element))

  content, err := os.ReadFile(filepath.Join(conversationDir, "images", element.Filename))
  require.NoError(t, err)
  assert.Equal(t, pngPayload, content)
}

func TestMediaDownloadPrefersDownloadUrl(t *testing.T) {
  var requested string
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    requested = r.URL.Path
    w.Write(pngPayload)
  }))
  defer server.Close()

  conversationDir := filepath.Join(t.TempDir(), "4242")
  element := &models.MediaElement{
    Type:        models.MediaTypeVideo,
    Url:         server.URL + "/player",
    DownloadUrl: server.URL + "/download",
    Filename:    "20210101-000000-1.mp4",
  }
  require.NoError(t, newMediaRepository(server).Download(context.Background(), conversationDir, element))

  assert.Equal(t, "/download", requested)
  assert.FileExists(t, filepath.Join(conversationDir, "mp4-videos", element.Filename))
}

func TestMediaDownloadDisabledIsNoop(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    t.Error("no request expected when the category is disabled")
  }))
  defer server.Close()

  r := newMediaRepository(server)
  r.DownloadGifs = false

  conversationDir := filepath.Join(t.TempDir(), "4242")
  element := &models.MediaElement{
    Type:     models.MediaTypeGif,
    Url:      server.URL + "/anim.mp4",
    Filename: "20210101-000000-abc.mp4",
  }
  require.NoError(t, r.Download(context.Background(), conversationDir, element))
  assert.NoFileExists(t, filepath.Join(conversationDir, "mp4-gifs", element.Filename))
}

func TestMediaDownloadRemoteFailureIsNotFatal(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusNotFound)
  }))
  defer server.Close()

  conversationDir := filepath.Join(t.TempDir(), "4242")
  element := &models.MediaElement{
    Type:     models.MediaTypeImage,
    Url:      server.URL + "/gone.png",
    Filename: "20210101-000000-1-media-gone.png",
  }
  require.NoError(t, newMediaRepository(server).Download(context.Background(), conversationDir, element))
  assert.NoFileExists(t, filepath.Join(conversationDir, "images", element.Filename))
}

func TestMediaDownloadStickerFollowsImages(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write(pngPayload)
  }))
  defer server.Close()

  conversationDir := filepath.Join(t.TempDir(), "4242")
  element := &models.MediaElement{
    Type:     models.MediaTypeSticker,
    Url:      server.URL + "/smile.png",
    Filename: "sticker-smile.png",
  }
  require.NoError(t, newMediaRepository(server).Download(context.Background(), conversationDir, element))
  assert.FileExists(t, filepath.Join(conversationDir, "images", element.Filename))
}
