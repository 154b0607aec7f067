package platform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// URL fragments used for platform detection, checked in this order
const (
	ShortsMarker    = "youtube.com/shorts/"
	YouTubeHost     = "youtube.com"
	YouTubeShortURL = "youtu.be"
	FacebookHost    = "facebook.com"
	FacebookWatch   = "fb.watch"
	InstagramHost   = "instagram.com"
	TikTokHost      = "tiktok.com"
)

var youtubeURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu)\.(com|be)/.+`)

// Classify maps a URL to its platform by substring matching. Shorts is checked
// before generic YouTube since every shorts URL also matches youtube.com.
func Classify(rawURL string) model.Platform {
	switch {
	case strings.Contains(rawURL, ShortsMarker):
		return model.PlatformYouTubeShorts
	case strings.Contains(rawURL, YouTubeHost), strings.Contains(rawURL, YouTubeShortURL):
		return model.PlatformYouTube
	case strings.Contains(rawURL, FacebookHost), strings.Contains(rawURL, FacebookWatch):
		return model.PlatformFacebook
	case strings.Contains(rawURL, InstagramHost):
		return model.PlatformInstagram
	case strings.Contains(rawURL, TikTokHost):
		return model.PlatformTikTok
	default:
		return model.PlatformUnknown
	}
}

// IsValidURL reports whether the URL has both a scheme and a host
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsYouTubeURL checks the URL shape of the YouTube family
func IsYouTubeURL(rawURL string) bool {
	return youtubeURLRegex.MatchString(rawURL)
}
