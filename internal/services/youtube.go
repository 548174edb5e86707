package services

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeVideoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractYouTubeID pulls the canonical 11-character video id out of any of
// the URL shapes stored in the catalog: youtu.be/<id>, watch?v=<id>,
// embed/<id>, shorts/<id>, /v/<id>, or a bare id. Returns "" when no id can
// be recognized.
func ExtractYouTubeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if youtubeVideoID.MatchString(s) {
		return s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = firstPathSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/v/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				candidate = firstPathSegment(strings.TrimPrefix(u.Path, prefix))
				break
			}
		}
	}

	if youtubeVideoID.MatchString(candidate) {
		return candidate
	}
	return ""
}

// EmbedURL canonicalizes a stored video URL to the embeddable form. URLs
// with no recognizable id pass through unchanged.
func EmbedURL(raw string) string {
	if id := ExtractYouTubeID(raw); id != "" {
		return "https://www.youtube.com/embed/" + id
	}
	return raw
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
