package model

// Platform is the hosting platform a URL belongs to
type Platform string

const (
	// PlatformYouTube is a regular YouTube watch or youtu.be URL
	PlatformYouTube Platform = "youtube"

	// PlatformYouTubeShorts is a youtube.com/shorts/ URL
	PlatformYouTubeShorts Platform = "youtube_shorts"

	// PlatformFacebook covers facebook.com and fb.watch
	PlatformFacebook Platform = "facebook"

	// PlatformInstagram covers instagram.com
	PlatformInstagram Platform = "instagram"

	// PlatformTikTok covers tiktok.com
	PlatformTikTok Platform = "tiktok"

	// PlatformUnknown is returned for anything unmatched
	PlatformUnknown Platform = "unknown"
)

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// IsKnown returns true if the platform is anything but unknown
func (p Platform) IsKnown() bool {
	switch p {
	case PlatformYouTube, PlatformYouTubeShorts, PlatformFacebook, PlatformInstagram, PlatformTikTok:
		return true
	default:
		return false
	}
}

// HasQualityMap returns true if the platform gets a full format listing
func (p Platform) HasQualityMap() bool {
	return p == PlatformYouTube
}

// FormatKind describes how a chosen format has to be fetched
type FormatKind int

const (
	// FormatProgressive carries audio and video in one stream
	FormatProgressive FormatKind = iota + 1

	// FormatVideoOnly needs a separate audio fetch and a merge
	FormatVideoOnly
)

// String returns the string representation of FormatKind
func (k FormatKind) String() string {
	switch k {
	case FormatProgressive:
		return "progressive"
	case FormatVideoOnly:
		return "video_only"
	default:
		return "invalid"
	}
}

// NeedsMerge returns true if the format must be paired with an audio track
func (k FormatKind) NeedsMerge() bool {
	return k == FormatVideoOnly
}
