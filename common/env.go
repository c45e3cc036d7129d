package common

import (
  "os"
  "strconv"
  "strings"
)

func GetEnvString(key string) string {
  return os.Getenv(key)
}

func GetEnvInt(key string) int {
  val, _ := strconv.Atoi(os.Getenv(key))
  return val
}

func GetEnvBool(key string) bool {
  val, _ := strconv.ParseBool(os.Getenv(key))
  return val
}

func GetEnvArray(key string) []string {
  if os.Getenv(key) == "" {
    return nil
  }
  var items []string
  for _, item := range strings.Split(os.Getenv(key), ",") {
    if item = strings.TrimSpace(item); item != "" {
      items = append(items, item)
    }
  }
  return items
}
