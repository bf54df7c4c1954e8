package domain

import "context"

// DesignRepository persists the history of generated designs.
type DesignRepository interface {
	Save(ctx context.Context, record *DesignRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]DesignRecord, error)
}
