package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"uniformgen/internal/domain"
	"uniformgen/internal/middleware"
)

const (
	maxGenerateBody       = 64 << 10
	missingKeywordOrStyle = "키워드와 스타일을 제공해야 합니다."
)

type generateUniformRequest struct {
	Keyword        looseString `json:"keyword"`
	Style          looseString `json:"style"`
	Sport          looseString `json:"sport"`
	PlayerName     looseString `json:"player_name"`
	PlayerNumber   looseString `json:"player_number"`
	Number         looseString `json:"number"`
	NamePosition   looseString `json:"name_position"`
	NumberPosition looseString `json:"number_position"`
	NameUppercase  looseBool   `json:"name_uppercase"`
	Steps          looseInt    `json:"steps"`
	Guidance       looseFloat  `json:"guidance"`
	Width          looseInt    `json:"width"`
	Height         looseInt    `json:"height"`
	Seed           looseInt    `json:"seed"`
	UserID         looseString `json:"user_id"`
}

type generateUniformResponse struct {
	Message        string      `json:"message"`
	ImageURL       string      `json:"imageUrl"`
	Prompt         string      `json:"prompt"`
	NegativePrompt string      `json:"negativePrompt"`
	View           domain.View `json:"view"`
	Model          string      `json:"model"`
	DesignID       string      `json:"designId,omitempty"`
}

// toDomain validates the payload shape. Keyword and style are required; positions
// default to the back panel and uppercase defaults to on.
func (p generateUniformRequest) toDomain() (domain.DesignRequest, error) {
	keyword := strings.TrimSpace(string(p.Keyword))
	if keyword == "" || strings.TrimSpace(string(p.Style)) == "" {
		return domain.DesignRequest{}, fmt.Errorf("%w: %s", domain.ErrValidation, missingKeywordOrStyle)
	}
	style, err := domain.ParseStyle(string(p.Style))
	if err != nil {
		return domain.DesignRequest{}, err
	}
	namePos, err := domain.ParseNamePosition(string(p.NamePosition))
	if err != nil {
		return domain.DesignRequest{}, err
	}
	numberPos, err := domain.ParseNumberPosition(string(p.NumberPosition))
	if err != nil {
		return domain.DesignRequest{}, err
	}
	number := string(p.PlayerNumber)
	if strings.TrimSpace(number) == "" {
		number = string(p.Number)
	}
	uppercase := true
	if p.NameUppercase.Set {
		uppercase = p.NameUppercase.Value
	}

	req := domain.DesignRequest{
		Keyword:        keyword,
		Style:          style,
		Sport:          string(p.Sport),
		PlayerName:     string(p.PlayerName),
		PlayerNumber:   number,
		NamePosition:   namePos,
		NumberPosition: numberPos,
		Uppercase:      uppercase,
		Params: domain.InferenceParams{
			Steps:    p.Steps.Value,
			Guidance: float64(p.Guidance),
			Width:    p.Width.Value,
			Height:   p.Height.Value,
		},
		UserID: strings.TrimSpace(string(p.UserID)),
	}
	if p.Seed.Set {
		seed := p.Seed.Value
		req.Params.Seed = &seed
	}
	return req, nil
}

// GenerateUniform handles POST /generate-uniform.
func (a *App) GenerateUniform(w http.ResponseWriter, r *http.Request) {
	var payload generateUniformRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxGenerateBody))
	if err := dec.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, "validation", "invalid payload: "+err.Error())
		return
	}
	req, err := payload.toDomain()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	req.RequestID = middleware.RequestIDFromContext(r.Context())
	req.Country = a.country(r)

	res, err := a.Pipeline.Generate(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp := generateUniformResponse{
		Message:        res.Message,
		ImageURL:       res.ImageURL,
		Prompt:         res.Prompt.Positive,
		NegativePrompt: res.Prompt.Negative,
		View:           res.View,
		Model:          res.ModelRef,
	}
	if res.Record != nil {
		resp.DesignID = res.Record.ID
	}
	a.json(w, http.StatusOK, resp)
}

// fail maps domain errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("code", code).
			Msg("generate-uniform failed")
	}
	if code == "validation" {
		msg = strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
	}
	a.error(w, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrNoUsableModel):
		return http.StatusInternalServerError, "no_usable_model"
	case errors.Is(err, domain.ErrOutputParse):
		return http.StatusInternalServerError, "output_parse_failure"
	case errors.Is(err, domain.ErrInferenceFailure):
		return http.StatusInternalServerError, "inference_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
