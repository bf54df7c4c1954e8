package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"uniformgen/internal/domain"
	"uniformgen/internal/infra"
	"uniformgen/internal/sqlinline"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// DesignRepositoryPG implements domain.DesignRepository on PostgreSQL.
type DesignRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDesignRepository constructs a repository on top of a marker-checked executor.
func NewDesignRepository(sql infra.SQLExecutor) *DesignRepositoryPG {
	return &DesignRepositoryPG{sql: sql}
}

// EnsureSchema creates the history table when missing.
func (r *DesignRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateDesignsTable); err != nil {
		return fmt.Errorf("ensure designs schema: %w", err)
	}
	return nil
}

// Save inserts the record, assigning an ID when empty and filling CreatedAt.
func (r *DesignRepositoryPG) Save(ctx context.Context, record *domain.DesignRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil design record", domain.ErrValidation)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDesign,
		record.ID,
		record.UserID,
		record.Keyword,
		record.Style,
		record.Sport,
		record.View,
		record.PlayerName,
		record.PlayerNumber,
		record.Prompt,
		record.ModelRef,
		record.StorageKey,
		record.ImageURL,
		record.Country,
		record.Width,
		record.Height,
	)
	if err := row.Scan(&record.CreatedAt); err != nil {
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

// ListByUser returns the newest designs first. limit is clamped to [1, 100] with 20 as
// the default.
func (r *DesignRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.DesignRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListDesignsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := make([]domain.DesignRecord, 0, limit)
	for rows.Next() {
		var d domain.DesignRecord
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Keyword, &d.Style, &d.Sport, &d.View,
			&d.PlayerName, &d.PlayerNumber, &d.Prompt, &d.ModelRef,
			&d.StorageKey, &d.ImageURL, &d.Country, &d.Width, &d.Height, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

var _ domain.DesignRepository = (*DesignRepositoryPG)(nil)
