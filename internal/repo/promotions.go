package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pecamax/backend-pecas/internal/promo"
)

// Promotions reads promotion definitions stored as JSON documents. Admins
// publish definitions as-is; semantic validation happens in promo.ParseCatalog.
type Promotions struct {
	DB DBTX
}

func NewPromotions(db DBTX) Promotions { return Promotions{DB: db} }

// ListActive returns every published, non-draft definition. Rows whose JSON
// cannot be decoded are surfaced as bare records carrying only the row id so
// the parser rejects them with a diagnostic instead of failing the whole load.
func (r Promotions) ListActive(ctx context.Context) ([]promo.Record, error) {
	const q = `
SELECT id, definition
FROM promotions
WHERE is_active AND NOT is_draft
ORDER BY priority ASC, id ASC`

	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var records []promo.Record
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		var rec promo.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			records = append(records, promo.Record{ID: id})
			continue
		}
		if rec.ID == "" {
			rec.ID = id
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}
	return records, nil
}
