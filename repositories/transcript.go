package repositories

import (
  "bytes"
  "errors"
  "fmt"
  "log"
  "os"
  "path/filepath"
  "regexp"
  "sort"
  "strconv"
  "strings"

  "scraper.local/dm-archiver/models"
)

var markerRe = regexp.MustCompile(`^\[LatestTweetID\] ([0-9]+)`)

// TranscriptsRepository owns the <conversationId>.txt files. The final line
// of a transcript is the resume marker, so the file is both the readable
// archive and the durable cursor of the next run.
type TranscriptsRepository struct {
  Dir string
}

func (r *TranscriptsRepository) Filename(conversationID string) string {
  return filepath.Join(r.Dir, fmt.Sprintf("%s.txt", conversationID))
}

// ReadMarker returns the id stored on the last line of a previous dump, or
// zero when there is no previous dump or its format is not recognized.
func (r *TranscriptsRepository) ReadMarker(conversationID string) (maxID int64, err error) {
  content, err := os.ReadFile(r.Filename(conversationID))
  if err != nil {
    if errors.Is(err, os.ErrNotExist) {
      log.Println("previous conversation not found, creating a new one with incremental support")
      err = nil
    }
    return
  }

  match := markerRe.FindStringSubmatch(lastLine(content))
  if match == nil {
    log.Println("latest tweet id not found in previous dump, creating a new one with incremental support")
    return
  }

  if maxID, err = strconv.ParseInt(match[1], 10, 64); err == nil {
    log.Println("latest tweet id found in previous dump, incremental update")
  }
  return
}

// WriteBack appends the new entries in ascending id order and leaves exactly
// one marker line at the end of the file. When a marker existed before, the
// old marker line is dropped first. The rewrite goes through a temp file and
// a rename so a crash cannot leave a half-written transcript behind.
func (r *TranscriptsRepository) WriteBack(conversationID string, entries []models.Entry, hadMarker bool) (err error) {
  if len(entries) == 0 {
    return
  }

  sorted := make([]models.Entry, len(entries))
  copy(sorted, entries)
  sort.Slice(sorted, func(i, j int) bool {
    return sorted[i].EntryID() < sorted[j].EntryID()
  })

  var buf strings.Builder
  var maxID int64
  for _, entry := range sorted {
    buf.WriteString(entry.Line())
    buf.WriteString("\n")
    if entry.EntryID() > maxID {
      maxID = entry.EntryID()
    }
  }
  buf.WriteString(fmt.Sprintf("[LatestTweetID] %d\n", maxID))

  filename := r.Filename(conversationID)
  var previous []byte
  if hadMarker {
    if previous, err = os.ReadFile(filename); err != nil {
      return
    }
    previous = dropLastLine(previous)
  }

  tmp, err := os.CreateTemp(filepath.Dir(filename), ".dmarchiver-*")
  if err != nil {
    return
  }
  defer os.Remove(tmp.Name())

  if _, err = tmp.Write(previous); err != nil {
    tmp.Close()
    return
  }
  if _, err = tmp.WriteString(buf.String()); err != nil {
    tmp.Close()
    return
  }
  if err = tmp.Close(); err != nil {
    return
  }
  return os.Rename(tmp.Name(), filename)
}

// Listings returns the conversation ids that have a transcript in Dir.
func (r *TranscriptsRepository) Listings() (ids []string, err error) {
  matches, err := filepath.Glob(filepath.Join(r.Dir, "*.txt"))
  if err != nil {
    return
  }
  for _, match := range matches {
    ids = append(ids, strings.TrimSuffix(filepath.Base(match), ".txt"))
  }
  sort.Strings(ids)
  return
}

// Lines returns the transcript content split into lines, marker included.
func (r *TranscriptsRepository) Lines(conversationID string) (lines []string, err error) {
  content, err := os.ReadFile(r.Filename(conversationID))
  if err != nil {
    return
  }
  trimmed := strings.TrimRight(string(content), "\n")
  if trimmed == "" {
    return
  }
  lines = strings.Split(trimmed, "\n")
  return
}

func lastLine(content []byte) string {
  trimmed := strings.TrimRight(string(content), "\n")
  if trimmed == "" {
    return ""
  }
  return trimmed[strings.LastIndexByte(trimmed, '\n')+1:]
}

func dropLastLine(content []byte) []byte {
  trimmed := bytes.TrimRight(content, "\n")
  idx := bytes.LastIndexByte(trimmed, '\n')
  if idx < 0 {
    return nil
  }
  return content[:idx+1]
}
