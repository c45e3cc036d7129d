package repositories

import (
  "context"
  "fmt"
  "io"
  "log"
  "net/http"
  "os"
  "path/filepath"

  "github.com/h2non/filetype"

  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/models"
)

type MediaRepository struct {
  Session    *models.Session
  HttpClient *http.Client

  DownloadImages bool
  DownloadGifs   bool
  DownloadVideos bool
}

// Download fetches one media resource into the category directory of the
// conversation. Remote failures are logged and swallowed: the transcript
// keeps the message either way. Only local disk errors are returned.
func (r *MediaRepository) Download(ctx context.Context, conversationID string, element *models.MediaElement) (err error) {
  if !r.enabled(element.Type) || element.Filename == "" {
    return
  }

  downloadUrl := element.DownloadUrl
  if downloadUrl == "" {
    downloadUrl = element.Url
  }
  if downloadUrl == "" {
    return
  }

  req, err := http.NewRequestWithContext(ctx, "GET", downloadUrl, nil)
  if err != nil {
    return
  }
  req.Header.Set("User-Agent", r.Session.Agent)
  req.Header.Set("cookie", r.Session.Cookie)

  resp, err := r.HttpClient.Do(req)
  if err != nil {
    log.Println(fmt.Sprintf("media download failed for %s", downloadUrl), err)
    return nil
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    log.Println(
      fmt.Sprintf(
        "media download failed for %s: status[%s] code[%d]",
        downloadUrl,
        resp.Status,
        resp.StatusCode,
      ),
    )
    return nil
  }

  dir := filepath.Join(conversationID, mediaDir(element.Type))
  if err = os.MkdirAll(dir, 0755); err != nil {
    return
  }
  out, err := os.Create(filepath.Join(dir, element.Filename))
  if err != nil {
    return
  }
  defer out.Close()

  head := make([]byte, 262)
  n, _ := io.ReadFull(resp.Body, head)
  head = head[:n]
  if kind, _ := filetype.Match(head); kind == filetype.Unknown {
    log.Println(fmt.Sprintf("media payload for %s is not a recognized container", element.Filename))
  }

  if _, err = out.Write(head); err != nil {
    return
  }
  _, err = io.Copy(out, resp.Body)
  return
}

func (r *MediaRepository) enabled(mediaType models.MediaType) bool {
  switch mediaType {
  case models.MediaTypeImage, models.MediaTypeSticker:
    return r.DownloadImages
  case models.MediaTypeGif:
    return r.DownloadGifs
  case models.MediaTypeVideo:
    return r.DownloadVideos
  }
  return false
}

func mediaDir(mediaType models.MediaType) string {
  switch mediaType {
  case models.MediaTypeGif:
    return config.MEDIA_DIR_GIFS
  case models.MediaTypeVideo:
    return config.MEDIA_DIR_VIDEOS
  }
  return config.MEDIA_DIR_IMAGES
}
