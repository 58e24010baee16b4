package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.RFQRepository = (*RFQRepo)(nil)

const rfqColumns = `id, code, account_id, items, contact, note, status, quotation_id, related_order_id, created_at, updated_at`

// RFQRepo solicitudes de cotización.
type RFQRepo struct {
	q Querier
}

// NewRFQRepository construye el adaptador.
func NewRFQRepository(q Querier) *RFQRepo {
	return &RFQRepo{q: q}
}

// Create persiste la solicitud. El índice único de code detecta la carrera entre dos altas.
func (r *RFQRepo) Create(ctx context.Context, x *entity.RFQ) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rfqs (`+rfqColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		x.ID, x.Code, x.AccountID, x.Items, x.Contact, nullIfEmpty(x.Note), x.Status,
		x.QuotationID, x.RelatedOrderID, x.CreatedAt, x.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rfq: %w", err)
	}
	return nil
}

func (r *RFQRepo) GetByID(ctx context.Context, id string) (*entity.RFQ, error) {
	x, err := scanRFQ(r.q.QueryRow(ctx, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rfq: %w", err)
	}
	return x, nil
}

func (r *RFQRepo) List(ctx context.Context, f repository.RFQFilter) ([]*entity.RFQ, int, error) {
	where := ` WHERE ($1::text = '' OR account_id::text = $1) AND ($2::text = '' OR status = $2)`
	args := []any{f.AccountID, f.Status}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM rfqs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rfqs: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+rfqColumns+` FROM rfqs`+where+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rfqs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.RFQ, 0)
	for rows.Next() {
		x, err := scanRFQ(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rfq: %w", err)
		}
		list = append(list, x)
	}
	return list, total, rows.Err()
}

// UpdateStatus aplica estado y referencias opcionales (NULL conserva el valor actual).
func (r *RFQRepo) UpdateStatus(ctx context.Context, id string, upd repository.RFQStatusUpdate) (*entity.RFQ, error) {
	x, err := scanRFQ(r.q.QueryRow(ctx, `
		UPDATE rfqs SET status = $2,
		       quotation_id = COALESCE($3, quotation_id),
		       related_order_id = COALESCE($4, related_order_id),
		       updated_at = $5
		WHERE id = $1
		RETURNING `+rfqColumns, id, upd.Status, upd.QuotationID, upd.RelatedOrderID, upd.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update rfq status: %w", err)
	}
	return x, nil
}

// La secuencia puede pasar de 4 dígitos: primero por longitud, luego por texto.
const latestRFQCodeSQL = `SELECT code FROM rfqs WHERE code LIKE $1 ORDER BY length(code) DESC, code DESC LIMIT 1`

// LatestCodeWithPrefix mayor código del prefijo, "" si no hay ninguno.
func (r *RFQRepo) LatestCodeWithPrefix(ctx context.Context, prefix string) (string, error) {
	var code string
	err := r.q.QueryRow(ctx, latestRFQCodeSQL, prefix+"%").Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest rfq code: %w", err)
	}
	return code, nil
}

func scanRFQ(row pgx.Row) (*entity.RFQ, error) {
	var x entity.RFQ
	var note *string
	if err := row.Scan(&x.ID, &x.Code, &x.AccountID, &x.Items, &x.Contact, &note, &x.Status,
		&x.QuotationID, &x.RelatedOrderID, &x.CreatedAt, &x.UpdatedAt); err != nil {
		return nil, err
	}
	x.Note = derefString(note)
	return &x, nil
}
