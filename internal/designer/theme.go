package designer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"uniformgen/internal/domain"
)

type palette uint8

const (
	paletteRed palette = iota
	paletteBlue
	paletteBlack
	paletteWhite
	paletteGreen
	paletteYellow
	palettePurple
	paletteOrange
	paletteNavy
	palettePink
	paletteGold
	paletteSilver

	paletteCount
)

type colorPair struct {
	primary string
	accent  string
}

var palettes = [paletteCount]colorPair{
	paletteRed:    {"red", "white"},
	paletteBlue:   {"blue", "white"},
	paletteBlack:  {"black", "gold"},
	paletteWhite:  {"white", "navy"},
	paletteGreen:  {"green", "white"},
	paletteYellow: {"yellow", "black"},
	palettePurple: {"purple", "gold"},
	paletteOrange: {"orange", "navy"},
	paletteNavy:   {"navy", "silver"},
	palettePink:   {"pink", "white"},
	paletteGold:   {"gold", "black"},
	paletteSilver: {"silver", "navy"},
}

type paletteToken struct {
	token   string
	palette palette
}

// Matched in order; the first token found in the keyword wins.
var paletteTokens = foldPaletteTokens([]paletteToken{
	{"빨간", paletteRed}, {"빨강", paletteRed}, {"레드", paletteRed}, {"red", paletteRed},
	{"파란", paletteBlue}, {"파랑", paletteBlue}, {"블루", paletteBlue}, {"blue", paletteBlue},
	{"검은", paletteBlack}, {"검정", paletteBlack}, {"블랙", paletteBlack}, {"black", paletteBlack},
	{"하얀", paletteWhite}, {"흰", paletteWhite}, {"화이트", paletteWhite}, {"white", paletteWhite},
	{"초록", paletteGreen}, {"녹색", paletteGreen}, {"그린", paletteGreen}, {"green", paletteGreen},
	{"노란", paletteYellow}, {"노랑", paletteYellow}, {"옐로", paletteYellow}, {"yellow", paletteYellow},
	{"보라", palettePurple}, {"퍼플", palettePurple}, {"purple", palettePurple},
	{"주황", paletteOrange}, {"오렌지", paletteOrange}, {"orange", paletteOrange},
	{"남색", paletteNavy}, {"네이비", paletteNavy}, {"navy", paletteNavy},
	{"분홍", palettePink}, {"핑크", palettePink}, {"pink", palettePink},
	{"금색", paletteGold}, {"골드", paletteGold}, {"gold", paletteGold},
	{"은색", paletteSilver}, {"실버", paletteSilver}, {"silver", paletteSilver},
})

// Single-syllable Hangul tokens such as 용 and 곰 appear inside unrelated words
// (사용자, 곰팡이), so tokens of one rune only match a whole word.
type mascotToken struct {
	token  string
	phrase string
}

func (t mascotToken) matches(folded string, words []string) bool {
	if utf8.RuneCountInString(t.token) > 1 {
		return strings.Contains(folded, t.token)
	}
	for _, w := range words {
		if w == t.token {
			return true
		}
	}
	return false
}

var mascotTokens = foldMascotTokens([]mascotToken{
	{"호랑이", "tiger emblem"}, {"tiger", "tiger emblem"},
	{"드래곤", "dragon emblem"}, {"dragon", "dragon emblem"}, {"용", "dragon emblem"},
	{"독수리", "eagle emblem"}, {"eagle", "eagle emblem"},
	{"사자", "lion emblem"}, {"lion", "lion emblem"},
	{"늑대", "wolf emblem"}, {"wolf", "wolf emblem"},
	{"상어", "shark emblem"}, {"shark", "shark emblem"},
	{"표범", "panther emblem"}, {"panther", "panther emblem"}, {"leopard", "panther emblem"},
	{"여우", "fox emblem"}, {"fox", "fox emblem"},
	{"곰", "bear emblem"}, {"bear", "bear emblem"},
})

// ExtractTheme reads a primary/accent colour pair and a mascot phrase out of a free
// text keyword. Each table is scanned independently and only its first hit counts.
func ExtractTheme(keyword string) domain.ThemeHint {
	folded := cases.Fold().String(keyword)
	var hint domain.ThemeHint
	for _, t := range paletteTokens {
		if strings.Contains(folded, t.token) {
			pair := palettes[t.palette]
			hint.PrimaryColor = pair.primary
			hint.AccentColor = pair.accent
			break
		}
	}
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, t := range mascotTokens {
		if t.matches(folded, words) {
			hint.MascotPhrase = t.phrase
			break
		}
	}
	return hint
}

func foldPaletteTokens(in []paletteToken) []paletteToken {
	c := cases.Fold()
	for i := range in {
		in[i].token = c.String(in[i].token)
	}
	return in
}

func foldMascotTokens(in []mascotToken) []mascotToken {
	c := cases.Fold()
	for i := range in {
		in[i].token = c.String(in[i].token)
	}
	return in
}
