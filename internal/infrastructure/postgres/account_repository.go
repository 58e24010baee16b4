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

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, password_hash, full_name, phone, role, is_active, is_verified, avatar, created_at, updated_at`

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una nueva cuenta. Email repetido -> ErrEmailAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.FullName, nullIfEmpty(a.Phone), a.Role,
		a.IsActive, a.IsVerified, nullIfEmpty(a.Avatar), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByEmail obtiene una cuenta por email (sin distinguir mayúsculas).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// Update sobrescribe los campos editables. Email y contraseña no se tocan aquí.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE accounts SET full_name = $2, phone = $3, role = $4, is_active = $5, avatar = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.FullName, nullIfEmpty(a.Phone), a.Role, a.IsActive, nullIfEmpty(a.Avatar), a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, "update password",
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
}

// SetActive activa o desactiva la cuenta.
func (r *AccountRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.execOne(ctx, "set active",
		`UPDATE accounts SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
}

// MarkVerified marca la cuenta como verificada y activa.
func (r *AccountRepo) MarkVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, "mark verified",
		`UPDATE accounts SET is_verified = TRUE, is_active = TRUE, updated_at = now() WHERE id = $1`, id)
}

// List lista cuentas filtradas por rol y búsqueda, con el total sin paginar.
func (r *AccountRepo) List(ctx context.Context, f repository.AccountFilter) ([]*entity.Account, int, error) {
	where := ` WHERE ($1::text = '' OR role = $1) AND ($2::text = '' OR email ILIKE $3 OR full_name ILIKE $3)`
	args := []any{f.Role, f.Search, likePattern(f.Search)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts`+where+` ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// Delete elimina la cuenta. Carrito, wishlist, pedidos y notificaciones caen en cascada.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete account", `DELETE FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepo) execOne(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var phone, avatar *string
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &phone, &a.Role,
		&a.IsActive, &a.IsVerified, &avatar, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Phone = derefString(phone)
	a.Avatar = derefString(avatar)
	return &a, nil
}
