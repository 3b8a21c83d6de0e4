package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

const (
	uniqueViolation = "23505"

	constraintUsername = "accounts_username_key"
	constraintEmail    = "accounts_email_lower_key"
)

const accountColumns = `id, username, email, email_confirmed, avatar_url, display_initials, created_at, updated_at`

// DB status labels.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusConflict = "conflict"
	statusMismatch = "mismatch"
	statusError    = "error"
)

// accountRepository implements repository.AccountRepository.
type accountRepository struct {
	pool       *pgxpool.Pool
	metrics    *telemetry.Metrics
	bcryptCost int
}

// NewAccountRepository creates a new AccountRepository. metrics may be nil.
func NewAccountRepository(pool *pgxpool.Pool, metrics *telemetry.Metrics, bcryptCost int) repository.AccountRepository {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &accountRepository{
		pool:       pool,
		metrics:    metrics,
		bcryptCost: bcryptCost,
	}
}

func (r *accountRepository) FindByID(ctx context.Context, id types.ID) (_ *model.Account, err error) {
	defer r.observe("find_by_id", time.Now(), &err)

	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.findOne(ctx, q, id.String())
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (_ *model.Account, err error) {
	defer r.observe("find_by_username", time.Now(), &err)

	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return r.findOne(ctx, q, username)
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (_ *model.Account, err error) {
	defer r.observe("find_by_email", time.Now(), &err)

	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return r.findOne(ctx, q, email)
}

func (r *accountRepository) CheckPassword(ctx context.Context, id types.ID, password string) (_ bool, err error) {
	defer r.observe("check_password", time.Now(), &err)

	hash, err := r.passwordHash(ctx, r.pool, id, false)
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

func (r *accountRepository) RotatePassword(ctx context.Context, id types.ID, currentPassword, newPassword string) (err error) {
	defer r.observe("rotate_password", time.Now(), &err)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotate password: %w", err)
	}
	defer tx.Rollback(ctx)

	hash, err := r.passwordHash(ctx, tx, id, true)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(currentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return repository.ErrPasswordMismatch
		}
		return fmt.Errorf("compare password: %w", err)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), r.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	const q = `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, q, id.String(), string(newHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotate password: %w", err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) (err error) {
	defer r.observe("update", time.Now(), &err)

	const q = `
		UPDATE accounts
		SET username = $2,
		    email = $3,
		    email_confirmed = $4,
		    avatar_url = $5,
		    display_initials = $6,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, q,
		account.ID().String(),
		account.Username(),
		account.Email(),
		account.EmailConfirmed(),
		optionalStringToPgText(account.AvatarURL()),
		optionalStringToPgText(account.DisplayInitials()),
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id types.ID) (err error) {
	defer r.observe("delete", time.Now(), &err)

	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepository) findOne(ctx context.Context, q string, arg any) (*model.Account, error) {
	var row accountRow
	if err := r.pool.QueryRow(ctx, q, arg).Scan(row.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return toAccountModel(row)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *accountRepository) passwordHash(ctx context.Context, db querier, id types.ID, forUpdate bool) ([]byte, error) {
	q := `SELECT password_hash FROM accounts WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	var hash string
	if err := db.QueryRow(ctx, q, id.String()).Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get password hash: %w", err)
	}
	return []byte(hash), nil
}

func (r *accountRepository) observe(method string, start time.Time, errp *error) {
	r.metrics.ObserveDB(method, dbStatus(*errp), time.Since(start))
}

func dbStatus(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, repository.ErrNotFound):
		return statusNotFound
	case errors.Is(err, repository.ErrUsernameConflict), errors.Is(err, repository.ErrEmailConflict):
		return statusConflict
	case errors.Is(err, repository.ErrPasswordMismatch):
		return statusMismatch
	default:
		return statusError
	}
}

// conflictError maps a unique violation to the matching repository error.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintEmail:
		return repository.ErrEmailConflict
	default:
		return repository.ErrUsernameConflict
	}
}

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
