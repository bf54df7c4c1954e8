package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"uniformgen/internal/domain"
	"uniformgen/pkg/zip"
)

const maxArchiveDesigns = 20

type designItem struct {
	ID           string    `json:"id"`
	Keyword      string    `json:"keyword"`
	Style        string    `json:"style"`
	Sport        string    `json:"sport"`
	View         string    `json:"view"`
	PlayerName   string    `json:"playerName,omitempty"`
	PlayerNumber string    `json:"playerNumber,omitempty"`
	Prompt       string    `json:"prompt"`
	Model        string    `json:"model"`
	ImageURL     string    `json:"imageUrl"`
	Country      string    `json:"country,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toDesignItem(d domain.DesignRecord) designItem {
	return designItem{
		ID:           d.ID,
		Keyword:      d.Keyword,
		Style:        d.Style,
		Sport:        d.Sport,
		View:         d.View,
		PlayerName:   d.PlayerName,
		PlayerNumber: d.PlayerNumber,
		Prompt:       d.Prompt,
		Model:        d.ModelRef,
		ImageURL:     d.ImageURL,
		Country:      d.Country,
		Width:        d.Width,
		Height:       d.Height,
		CreatedAt:    d.CreatedAt,
	}
}

// ListDesigns handles GET /designs?user_id=&limit=.
func (a *App) ListDesigns(w http.ResponseWriter, r *http.Request) {
	designs, ok := a.loadDesigns(w, r, 0)
	if !ok {
		return
	}
	items := make([]designItem, 0, len(designs))
	for _, d := range designs {
		items = append(items, toDesignItem(d))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ArchiveDesigns handles GET /designs/archive?user_id= and streams the newest designs
// as a zip file.
func (a *App) ArchiveDesigns(w http.ResponseWriter, r *http.Request) {
	if a.Files == nil {
		a.error(w, http.StatusServiceUnavailable, "history_disabled", "artifact storage is not readable")
		return
	}
	designs, ok := a.loadDesigns(w, r, maxArchiveDesigns)
	if !ok {
		return
	}
	assets := make([]zip.Asset, 0, len(designs))
	for _, d := range designs {
		data, err := a.Files.Read(r.Context(), d.StorageKey)
		if errors.Is(err, domain.ErrNotFound) {
			a.Logger.Warn().Err(err).Str("storage_key", d.StorageKey).Msg("archive: skipping missing artifact")
			continue
		}
		if err != nil {
			a.Logger.Error().Err(err).Str("storage_key", d.StorageKey).Msg("archive: read failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to read stored designs")
			return
		}
		assets = append(assets, zip.Asset{Filename: d.StorageKey, Data: data, Modified: d.CreatedAt})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no stored designs for user")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="designs.zip"`)
	if err := zip.ArchiveAssets(w, assets); err != nil {
		a.Logger.Error().Err(err).Msg("archive: write failed")
	}
}

func (a *App) loadDesigns(w http.ResponseWriter, r *http.Request, maxLimit int) ([]domain.DesignRecord, bool) {
	if a.Designs == nil {
		a.error(w, http.StatusServiceUnavailable, "history_disabled", "design history is not configured")
		return nil, false
	}
	q := r.URL.Query()
	userID := strings.TrimSpace(q.Get("user_id"))
	if userID == "" {
		a.error(w, http.StatusBadRequest, "validation", "user_id is required")
		return nil, false
	}
	limit := 0
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			a.error(w, http.StatusBadRequest, "validation", fmt.Sprintf("invalid limit %q", raw))
			return nil, false
		}
		limit = v
	}
	if maxLimit > 0 && (limit == 0 || limit > maxLimit) {
		limit = maxLimit
	}
	designs, err := a.Designs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "validation", err.Error())
			return nil, false
		}
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("designs: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load designs")
		return nil, false
	}
	return designs, true
}
