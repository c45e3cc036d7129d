package config

const (
  TWITTER_BASE_URL          = "https://twitter.com"
  TWITTER_MESSAGES_PATH     = "/messages"
  TWITTER_INBOX_PATH        = "/inbox/paginate"
  TWITTER_CONVERSATION_PATH = "/messages/with/conversation"

  TWITTER_DM_VIDEO_URL          = "https://twitter.com/i/videos/dm/"
  TWITTER_DM_VIDEO_DOWNLOAD_URL = "https://mobile.twitter.com/messages/media/"
  TWITTER_SHORT_URL_PREFIX      = "https://t.co/"

  TWITTER_ERROR_ACCOUNT_LOCKED = 326

  SESSION_FILENAME = "dmarchiver_session.json"
  SESSION_VERSION  = 1

  MEDIA_DIR_IMAGES = "images"
  MEDIA_DIR_GIFS   = "mp4-gifs"
  MEDIA_DIR_VIDEOS = "mp4-videos"

  TRANSCRIPT_TIME_LAYOUT = "2006-01-02 15:04:05"
  MEDIA_TIME_LAYOUT      = "20060102-150405"
)
