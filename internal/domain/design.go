package domain

import (
	"fmt"
	"strings"
)

// Style enumerates the garment cuts the prompt compiler knows how to describe.
// StyleGeneric covers any non-empty style string that is not recognised.
type Style uint8

const (
	StyleGeneric Style = iota
	StyleShortSleeve
	StyleButtonUp
	StyleLongSleeve
	StyleSleeveless

	styleCount
)

var styleNames = [styleCount]string{
	StyleGeneric:     "generic",
	StyleShortSleeve: "short_sleeve",
	StyleButtonUp:    "button_up",
	StyleLongSleeve:  "long_sleeve",
	StyleSleeveless:  "sleeveless",
}

var styleAliases = map[string]Style{
	"short_sleeve":        StyleShortSleeve,
	"short_sleeve_tshirt": StyleShortSleeve,
	"short_sleeve_shirt":  StyleShortSleeve,
	"tshirt":              StyleShortSleeve,
	"t_shirt":             StyleShortSleeve,
	"button_up":           StyleButtonUp,
	"button_up_shirt":     StyleButtonUp,
	"button_down":         StyleButtonUp,
	"baseball_jersey":     StyleButtonUp,
	"long_sleeve":         StyleLongSleeve,
	"long_sleeve_tshirt":  StyleLongSleeve,
	"long_sleeve_shirt":   StyleLongSleeve,
	"sleeveless":          StyleSleeveless,
	"sleeveless_shirt":    StyleSleeveless,
	"tank_top":            StyleSleeveless,
	"basketball_jersey":   StyleSleeveless,
}

// ParseStyle maps a free-form style value (including the web form aliases) to a Style.
// Unknown values map to StyleGeneric; only an empty value is rejected.
func ParseStyle(raw string) (Style, error) {
	key := normalizeToken(raw)
	if key == "" {
		return StyleGeneric, fmt.Errorf("%w: style is required", ErrValidation)
	}
	if style, ok := styleAliases[key]; ok {
		return style, nil
	}
	return StyleGeneric, nil
}

func (s Style) String() string {
	if s < styleCount {
		return styleNames[s]
	}
	return styleNames[StyleGeneric]
}

// Position enumerates the label slots a player name or number can be printed in.
type Position uint8

const (
	PositionNone Position = iota
	PositionBack
	PositionFrontLeft
	PositionFrontCenter
	PositionShoulder

	positionCount
)

var positionNames = [positionCount]string{
	PositionNone:        "none",
	PositionBack:        "back",
	PositionFrontLeft:   "front_left",
	PositionFrontCenter: "front_center",
	PositionShoulder:    "shoulder",
}

func (p Position) String() string {
	if p < positionCount {
		return positionNames[p]
	}
	return "unknown"
}

// IsBack reports whether the position sits on the back panel.
func (p Position) IsBack() bool { return p == PositionBack }

// IsFront reports whether the position is one of the front-ish slots.
func (p Position) IsFront() bool {
	switch p {
	case PositionFrontLeft, PositionFrontCenter, PositionShoulder:
		return true
	default:
		return false
	}
}

func parsePosition(raw string, allowed ...Position) (Position, bool) {
	key := normalizeToken(raw)
	for _, p := range allowed {
		if positionNames[p] == key {
			return p, true
		}
	}
	return PositionNone, false
}

// ParseNamePosition parses the name slot; an empty value defaults to the back panel.
func ParseNamePosition(raw string) (Position, error) {
	if strings.TrimSpace(raw) == "" {
		return PositionBack, nil
	}
	p, ok := parsePosition(raw, PositionBack, PositionFrontLeft, PositionFrontCenter, PositionShoulder, PositionNone)
	if !ok {
		return PositionNone, fmt.Errorf("%w: unsupported name_position %q", ErrValidation, raw)
	}
	return p, nil
}

// ParseNumberPosition parses the number slot; an empty value defaults to the back panel.
func ParseNumberPosition(raw string) (Position, error) {
	if strings.TrimSpace(raw) == "" {
		return PositionBack, nil
	}
	p, ok := parsePosition(raw, PositionBack, PositionFrontCenter, PositionShoulder)
	if !ok {
		return PositionNone, fmt.Errorf("%w: unsupported number_position %q", ErrValidation, raw)
	}
	return p, nil
}

// View is the physical side of the garment depicted by both the generated image and
// the text overlay.
type View uint8

const (
	ViewFront View = iota
	ViewBack
)

func (v View) String() string {
	if v == ViewBack {
		return "back"
	}
	return "front"
}

// MarshalText renders the view as "front" or "back" in JSON payloads.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ThemeHint is the best-effort colour and mascot reading of a keyword. Empty fields
// mean no match.
type ThemeHint struct {
	PrimaryColor string
	AccentColor  string
	MascotPhrase string
}

// PromptBundle is the positive/negative prompt pair sent to the inference backend.
type PromptBundle struct {
	Positive string
	Negative string
}

const (
	DefaultSport    = "baseball"
	DefaultSteps    = 30
	DefaultGuidance = 7.5
	DefaultWidth    = 768
	DefaultHeight   = 768

	MinDimension = 256
	MaxDimension = 1536
	MaxSteps     = 150
	MaxGuidance  = 30.0
)

// InferenceParams are the sampler settings forwarded to the backend.
type InferenceParams struct {
	Steps    int
	Guidance float64
	Width    int
	Height   int
	Seed     *int
}

// DesignRequest is the validated design intent for one generated uniform.
type DesignRequest struct {
	Keyword        string
	Style          Style
	Sport          string
	PlayerName     string
	PlayerNumber   string
	NamePosition   Position
	NumberPosition Position
	Uppercase      bool
	Params         InferenceParams

	UserID    string
	Country   string
	RequestID string
}

// Validate enforces the required fields. Keyword and style absence is a validation
// failure rather than a defaulted value.
func (r DesignRequest) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("%w: keyword is required", ErrValidation)
	}
	if r.Style >= styleCount {
		return fmt.Errorf("%w: style is required", ErrValidation)
	}
	return nil
}

// WithDefaults fills optional fields and clamps the inference parameters into the
// range diffusion backends accept. Dimensions are rounded down to a multiple of 8.
func (r DesignRequest) WithDefaults(base InferenceParams) DesignRequest {
	out := r
	out.Keyword = strings.TrimSpace(out.Keyword)
	out.Sport = strings.TrimSpace(out.Sport)
	if out.Sport == "" {
		out.Sport = DefaultSport
	}
	out.PlayerName = strings.TrimSpace(out.PlayerName)
	out.PlayerNumber = strings.TrimSpace(out.PlayerNumber)

	p := out.Params
	if p.Steps <= 0 {
		p.Steps = firstPositive(base.Steps, DefaultSteps)
	}
	if p.Steps > MaxSteps {
		p.Steps = MaxSteps
	}
	if p.Guidance <= 0 {
		p.Guidance = base.Guidance
		if p.Guidance <= 0 {
			p.Guidance = DefaultGuidance
		}
	}
	if p.Guidance > MaxGuidance {
		p.Guidance = MaxGuidance
	}
	if p.Width <= 0 {
		p.Width = firstPositive(base.Width, DefaultWidth)
	}
	if p.Height <= 0 {
		p.Height = firstPositive(base.Height, DefaultHeight)
	}
	p.Width = clampDimension(p.Width)
	p.Height = clampDimension(p.Height)
	out.Params = p
	return out
}

func clampDimension(v int) int {
	if v < MinDimension {
		v = MinDimension
	}
	if v > MaxDimension {
		v = MaxDimension
	}
	return v - v%8
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func normalizeToken(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	return key
}
