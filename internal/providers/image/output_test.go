package image

import (
	"encoding/json"
	"errors"
	"testing"

	"uniformgen/internal/domain"
)

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"list of strings", `["https://x/1.png","https://x/2.png"]`, "https://x/1.png"},
		{"list of objects", `[{"url":"https://x/obj.png"}]`, "https://x/obj.png"},
		{"bare string", `"https://x/single.png"`, "https://x/single.png"},
		{"object with image", `{"image":"https://x/img.png","url":"https://x/other.png"}`, "https://x/img.png"},
		{"object with url", `{"url":"https://x/url.png"}`, "https://x/url.png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractImageURL(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractImageURLRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `42`, `{"images":["x"]}`, `[{"uri":"x"}]`, `"   "`} {
		_, err := ExtractImageURL(json.RawMessage(raw))
		if !errors.Is(err, domain.ErrOutputParse) {
			t.Fatalf("ExtractImageURL(%q) error = %v, want ErrOutputParse", raw, err)
		}
	}
}
