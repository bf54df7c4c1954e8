package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"uniformgen/internal/domain"
)

// designFlags are shared by prompt and generate.
type designFlags struct {
	keyword        string
	style          string
	sport          string
	name           string
	number         string
	namePosition   string
	numberPosition string
	noUppercase    bool
	steps          int
	guidance       float64
	width          int
	height         int
	seed           int
}

func (f *designFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.keyword, "keyword", "k", "", "theme keyword, e.g. \"빨간 호랑이\" (required)")
	fl.StringVarP(&f.style, "style", "s", "short_sleeve", "garment style")
	fl.StringVar(&f.sport, "sport", domain.DefaultSport, "sport")
	fl.StringVar(&f.name, "name", "", "player name")
	fl.StringVar(&f.number, "number", "", "player number")
	fl.StringVar(&f.namePosition, "name-position", "back", "back|front_left|front_center|shoulder|none")
	fl.StringVar(&f.numberPosition, "number-position", "back", "back|front_center|shoulder")
	fl.BoolVar(&f.noUppercase, "no-uppercase", false, "keep the player name as typed")
	fl.IntVar(&f.steps, "steps", 0, "inference steps (0 = default)")
	fl.Float64Var(&f.guidance, "guidance", 0, "guidance scale (0 = default)")
	fl.IntVar(&f.width, "width", 0, "image width (0 = default)")
	fl.IntVar(&f.height, "height", 0, "image height (0 = default)")
	fl.IntVar(&f.seed, "seed", -1, "seed (-1 = random)")
	_ = cmd.MarkFlagRequired("keyword")
}

func (f *designFlags) request() (domain.DesignRequest, error) {
	style, err := domain.ParseStyle(f.style)
	if err != nil {
		return domain.DesignRequest{}, err
	}
	namePos, err := domain.ParseNamePosition(f.namePosition)
	if err != nil {
		return domain.DesignRequest{}, err
	}
	numberPos, err := domain.ParseNumberPosition(f.numberPosition)
	if err != nil {
		return domain.DesignRequest{}, err
	}
	req := domain.DesignRequest{
		Keyword:        f.keyword,
		Style:          style,
		Sport:          f.sport,
		PlayerName:     f.name,
		PlayerNumber:   f.number,
		NamePosition:   namePos,
		NumberPosition: numberPos,
		Uppercase:      !f.noUppercase,
		Params: domain.InferenceParams{
			Steps:    f.steps,
			Guidance: f.guidance,
			Width:    f.width,
			Height:   f.height,
		},
	}
	if f.seed >= 0 {
		seed := f.seed
		req.Params.Seed = &seed
	}
	if err := req.Validate(); err != nil {
		return domain.DesignRequest{}, fmt.Errorf("%w (use --keyword)", err)
	}
	return req, nil
}
