package services

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts url", "https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"legacy v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"live url", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"nocookie host", "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
		{"not a url", "not-a-url", ""},
		{"empty", "", ""},
		{"wrong host", "https://vimeo.com/123456", ""},
		{"id too short", "https://youtu.be/short", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractYouTubeID(tc.in); got != tc.want {
				t.Fatalf("ExtractYouTubeID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	got := EmbedURL("https://youtu.be/dQw4w9WgXcQ")
	want := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	if got != want {
		t.Fatalf("EmbedURL = %q, want %q", got, want)
	}

	// Unrecognizable URLs pass through untouched.
	raw := "https://example.com/video.mp4"
	if got := EmbedURL(raw); got != raw {
		t.Fatalf("EmbedURL(%q) = %q, want passthrough", raw, got)
	}
}
