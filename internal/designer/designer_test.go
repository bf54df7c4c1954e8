package designer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniformgen/internal/domain"
)

func TestExtractTheme(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    domain.ThemeHint
	}{
		{
			name:    "korean color and creature",
			keyword: "빨간 호랑이",
			want:    domain.ThemeHint{PrimaryColor: "red", AccentColor: "white", MascotPhrase: "tiger emblem"},
		},
		{
			name:    "case insensitive english",
			keyword: "BLUE Dragons",
			want:    domain.ThemeHint{PrimaryColor: "blue", AccentColor: "white", MascotPhrase: "dragon emblem"},
		},
		{
			name:    "first table entry wins over input order",
			keyword: "black and red eagles",
			want:    domain.ThemeHint{PrimaryColor: "red", AccentColor: "white", MascotPhrase: "eagle emblem"},
		},
		{
			name:    "color only",
			keyword: "네이비 스트라이프",
			want:    domain.ThemeHint{PrimaryColor: "navy", AccentColor: "silver"},
		},
		{
			name:    "creature only",
			keyword: "Wolf pack",
			want:    domain.ThemeHint{MascotPhrase: "wolf emblem"},
		},
		{
			name:    "no match",
			keyword: "ocean breeze",
			want:    domain.ThemeHint{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractTheme(tc.keyword))
		})
	}
}

func TestExtractThemeShortHangulMascots(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"빨간 용", "dragon emblem"},
		{"곰 군단", "bear emblem"},
		{"용, 호랑이", "tiger emblem"},
		{"사용자 블루", ""},
		{"전용 유니폼", ""},
		{"곰팡이", ""},
	}
	for _, tc := range tests {
		t.Run(tc.keyword, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractTheme(tc.keyword).MascotPhrase)
		})
	}
}

func TestExtractThemeFirstMascotWins(t *testing.T) {
	hint := ExtractTheme("lion versus tiger")
	assert.Equal(t, "tiger emblem", hint.MascotPhrase)
}

func TestDecideView(t *testing.T) {
	all := []domain.Position{
		domain.PositionNone, domain.PositionBack, domain.PositionFrontLeft,
		domain.PositionFrontCenter, domain.PositionShoulder,
	}
	for _, name := range all {
		for _, number := range all {
			got := DecideView(name, number)
			switch {
			case name == domain.PositionBack || number == domain.PositionBack:
				assert.Equal(t, domain.ViewBack, got, "name=%s number=%s", name, number)
			default:
				assert.Equal(t, domain.ViewFront, got, "name=%s number=%s", name, number)
			}
		}
	}
	assert.Equal(t, domain.ViewFront, DecideView(domain.PositionNone, domain.PositionNone))
}

func TestBuildPromptViewPhrase(t *testing.T) {
	front := BuildPrompt("red tiger", "baseball", domain.StyleShortSleeve, domain.ViewFront)
	back := BuildPrompt("red tiger", "baseball", domain.StyleShortSleeve, domain.ViewBack)

	assert.Contains(t, front, "front view")
	assert.NotContains(t, front, "back view")
	assert.Contains(t, front, "tiger emblem")

	assert.Contains(t, back, "back view")
	assert.NotContains(t, back, "front view")
	assert.NotContains(t, back, "tiger emblem")
}

func TestBuildPromptOrder(t *testing.T) {
	got := BuildPrompt("green eagle", "soccer", domain.StyleSleeveless, domain.ViewFront)
	order := []string{
		"sleeveless athletic jersey tank top",
		"soccer team uniform top",
		"front view",
		"studio lighting",
		"primary color green",
		"white accent trim",
		"eagle emblem on the chest",
		"theme: green eagle",
		"(masterpiece:1.2)",
	}
	last := -1
	for _, part := range order {
		idx := strings.Index(got, part)
		require.GreaterOrEqual(t, idx, 0, "missing %q in %s", part, got)
		require.Greater(t, idx, last, "%q out of order in %s", part, got)
		last = idx
	}
}

func TestBuildPromptFallbacks(t *testing.T) {
	got := BuildPrompt("ocean breeze", "", domain.Style(200), domain.ViewFront)
	assert.True(t, strings.HasPrefix(got, "sports team jersey, baseball team uniform top"), got)
	assert.NotContains(t, got, "primary color")
	assert.NotContains(t, got, "emblem")
	assert.Contains(t, got, "theme: ocean breeze")
}

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt("파란 독수리", "basketball", domain.StyleLongSleeve, domain.ViewFront)
	b := BuildPrompt("파란 독수리", "basketball", domain.StyleLongSleeve, domain.ViewFront)
	assert.Equal(t, a, b)
}

func TestNegativePromptIsShared(t *testing.T) {
	a := BuildBundle("red", "baseball", domain.StyleButtonUp, domain.ViewFront)
	b := BuildBundle("blue wolf", "hockey", domain.StyleLongSleeve, domain.ViewBack)
	assert.Equal(t, NegativePrompt, a.Negative)
	assert.Equal(t, a.Negative, b.Negative)
	for _, token := range []string{"collage", "mannequin", "hoodie", "plaid", "watermark", "low quality"} {
		assert.Contains(t, NegativePrompt, token)
	}
}

func TestNewPlanThreadsSingleView(t *testing.T) {
	plan := NewPlan(domain.DesignRequest{
		Keyword:        "빨간 호랑이",
		Style:          domain.StyleShortSleeve,
		Sport:          "baseball",
		NamePosition:   domain.PositionBack,
		NumberPosition: domain.PositionBack,
	})
	require.Equal(t, domain.ViewBack, plan.View)
	assert.Contains(t, plan.Prompt.Positive, "back view")
	assert.Contains(t, plan.Prompt.Positive, "red")
	assert.Contains(t, plan.Prompt.Positive, "white")
	assert.NotContains(t, plan.Prompt.Positive, "tiger emblem")
	assert.Equal(t, "tiger emblem", plan.Theme.MascotPhrase)
}
