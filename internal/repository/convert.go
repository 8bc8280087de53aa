package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/domain"
)

// pendingColumns holds the nullable pending_* columns of users. All of them
// are null while the user has no verification in flight.
type pendingColumns struct {
	link       pgtype.Text
	entityID   pgtype.Int8
	accessHash pgtype.Int8
	kind       pgtype.Text
	title      pgtype.Text
	year       pgtype.Int4
	award      decimal.NullDecimal
	createdAt  pgtype.Timestamptz
}

// pendingToColumns converts a pending verification to its column values.
func pendingToColumns(p *domain.PendingVerification) pendingColumns {
	if p == nil {
		return pendingColumns{}
	}
	return pendingColumns{
		link:       pgtype.Text{String: p.Link, Valid: true},
		entityID:   pgtype.Int8{Int64: p.Handle.ID, Valid: true},
		accessHash: pgtype.Int8{Int64: p.Handle.AccessHash, Valid: true},
		kind:       pgtype.Text{String: string(p.Handle.Kind), Valid: true},
		title:      pgtype.Text{String: p.Handle.Title, Valid: true},
		year:       pgtype.Int4{Int32: int32(p.Year), Valid: true},
		award:      decimal.NullDecimal{Decimal: p.Award, Valid: true},
		createdAt:  pgtype.Timestamptz{Time: p.CreatedAt, Valid: true},
	}
}

// pending converts column values back, returning nil when idle.
func (c *pendingColumns) pending() *domain.PendingVerification {
	if !c.entityID.Valid {
		return nil
	}
	return &domain.PendingVerification{
		Link: c.link.String,
		Handle: domain.EntityHandle{
			ID:         c.entityID.Int64,
			AccessHash: c.accessHash.Int64,
			Kind:       domain.EntityKind(c.kind.String),
			Title:      c.title.String,
		},
		Year:      int(c.year.Int32),
		Award:     c.award.Decimal,
		CreatedAt: c.createdAt.Time,
	}
}

// dest lists scan targets in users column order.
func (c *pendingColumns) dest() []any {
	return []any{&c.link, &c.entityID, &c.accessHash, &c.kind, &c.title, &c.year, &c.award, &c.createdAt}
}

// args lists values in users column order.
func (c *pendingColumns) args() []any {
	return []any{c.link, c.entityID, c.accessHash, c.kind, c.title, c.year, c.award, c.createdAt}
}
