package platform

import (
	"encoding/base64"
	"log"
	"mime"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Filename constants
const (
	VideoExtension     = ".mp4"
	FallbackName       = "video"
	IllegalReplacement = "_"
)

// Encoded-word markers as they arrive from upstream metadata, with '?' already
// replaced by '_'. Matching is case-insensitive.
const (
	QEncodedPrefix = "=_utf-8_q_"
	BEncodedPrefix = "=_utf-8_b_"
	qWordPrefix    = "=?utf-8?q?"
	wordSuffix     = "?="
)

var (
	encodedSuffixes = []string{"?=", "_=", "=_"}

	// illegalChars are rejected by common filesystems and break header quoting
	illegalChars = regexp.MustCompile(`[\\/*?:"<>|]`)

	wordDecoder = new(mime.WordDecoder)
)

// SanitizeTitle turns a video title into a base name safe for the download
// directory by stripping characters that filesystems reject.
func SanitizeTitle(title string) string {
	name := strings.TrimSpace(illegalChars.ReplaceAllString(title, ""))
	if name == "" {
		return FallbackName
	}
	return name
}

// CleanFilename decodes and normalizes a display filename for HTTP headers.
// It never fails: the worst case is FallbackName plus VideoExtension.
func CleanFilename(raw string, asciiOnly bool) string {
	name := illegalChars.ReplaceAllString(DecodeFilename(raw), IllegalReplacement)

	if asciiOnly {
		ascii := stripNonASCII(name)
		if isBlankStem(ascii) && !isBlankStem(name) {
			// Transliterate rather than end up with an empty name
			ascii = slug.Make(trimVideoExtension(name))
		}
		name = ascii
	}

	name = strings.TrimSpace(name)
	if isBlankStem(name) {
		return FallbackName + VideoExtension
	}
	if !strings.HasSuffix(strings.ToLower(name), VideoExtension) {
		name += VideoExtension
	}
	return name
}

// DecodeFilename decodes quoted-printable and base64 encoded-word filenames.
// Anything else is returned untouched; undecodable input yields FallbackName.
func DecodeFilename(raw string) string {
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, QEncodedPrefix):
		body := encodedBody(raw[len(QEncodedPrefix):])
		decoded, err := wordDecoder.Decode(qWordPrefix + body + wordSuffix)
		if err != nil {
			log.Printf("[filename] failed to decode %q: %v", raw, err)
			return FallbackName
		}
		return decoded

	case strings.HasPrefix(lower, BEncodedPrefix):
		body := encodedBody(raw[len(BEncodedPrefix):])
		data, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			log.Printf("[filename] failed to decode %q: %v", raw, err)
			return FallbackName
		}
		return strings.ToValidUTF8(string(data), "")
	}

	return raw
}

// encodedBody drops the extension and the closing encoded-word marker
func encodedBody(s string) string {
	s = trimVideoExtension(s)
	for _, suffix := range encodedSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

func trimVideoExtension(s string) string {
	if strings.HasSuffix(strings.ToLower(s), VideoExtension) {
		return s[:len(s)-len(VideoExtension)]
	}
	return s
}

func isBlankStem(s string) bool {
	return strings.TrimSpace(trimVideoExtension(strings.TrimSpace(s))) == ""
}

func stripNonASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}
