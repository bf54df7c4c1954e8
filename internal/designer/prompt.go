package designer

import (
	"fmt"
	"strings"

	"uniformgen/internal/domain"
)

// NegativePrompt lists the compositions and artefacts every request excludes. It is
// identical for all requests.
const NegativePrompt = "multiple shirts, two jerseys, duplicate garments, collage, grid, split view, " +
	"front and back together, person, people, human, model, mannequin, body, face, arms, hands, hanger, " +
	"hoodie, jacket, coat, dress, pants, shorts, socks, " +
	"plaid, checkered pattern, camouflage, polka dots, " +
	"text, letters, numbers, typography, watermark, signature, logo text, " +
	"lowres, low quality, blurry, jpeg artifacts, deformed, distorted, cropped, out of frame"

var garmentPhrases = [...]string{
	domain.StyleGeneric:     "sports team jersey",
	domain.StyleShortSleeve: "short sleeve crew neck sports jersey t-shirt",
	domain.StyleButtonUp:    "button-up baseball jersey with short sleeves and piping",
	domain.StyleLongSleeve:  "long sleeve athletic jersey",
	domain.StyleSleeveless:  "sleeveless athletic jersey tank top",
}

var viewPhrases = [...]string{
	domain.ViewFront: "front view, single garment, isolated product shot, centered",
	domain.ViewBack:  "back view, single garment, isolated product shot, centered, clean back panel",
}

const studioQualifiers = "flat lay on plain light gray studio background, soft even studio lighting, " +
	"detailed polyester mesh fabric texture, realistic stitching"

const qualityTail = "(masterpiece:1.2), (best quality:1.2), (highly detailed:1.1), sharp focus, 8k"

func garmentPhrase(style domain.Style) string {
	if int(style) < len(garmentPhrases) {
		return garmentPhrases[style]
	}
	return garmentPhrases[domain.StyleGeneric]
}

// BuildPrompt compiles the positive prompt. The skeleton is fixed and only the
// variable slots (garment, sport, view, theme, keyword) change between requests, so
// the same inputs always produce the same string.
func BuildPrompt(keyword, sport string, style domain.Style, view domain.View) string {
	keyword = strings.TrimSpace(keyword)
	sport = strings.TrimSpace(sport)
	if sport == "" {
		sport = domain.DefaultSport
	}
	garment := garmentPhrase(style)
	parts := []string{
		garment,
		fmt.Sprintf("%s team uniform top", sport),
		viewPhrases[view],
		studioQualifiers,
	}

	theme := ExtractTheme(keyword)
	if theme.PrimaryColor != "" {
		parts = append(parts, fmt.Sprintf("primary color %s", theme.PrimaryColor))
	}
	if theme.AccentColor != "" {
		parts = append(parts, fmt.Sprintf("%s accent trim", theme.AccentColor))
	}
	if theme.MascotPhrase != "" && view != domain.ViewBack {
		parts = append(parts, fmt.Sprintf("%s on the chest", theme.MascotPhrase))
	}
	if keyword != "" {
		parts = append(parts, fmt.Sprintf("theme: %s", keyword))
	}
	parts = append(parts, qualityTail)
	return strings.Join(parts, ", ")
}

// BuildBundle returns the positive prompt together with the shared negative prompt.
func BuildBundle(keyword, sport string, style domain.Style, view domain.View) domain.PromptBundle {
	return domain.PromptBundle{
		Positive: BuildPrompt(keyword, sport, style, view),
		Negative: NegativePrompt,
	}
}
