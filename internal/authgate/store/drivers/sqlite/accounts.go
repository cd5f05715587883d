package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/domain"
)

type accountsRepo struct {
	q querier
}

const accountColumns = `id, email, two_factor_enabled, two_factor_code_hash,
	two_factor_code_expires_at, two_factor_code_sent_at, totp_secret,
	totp_confirmed_at, created_at, updated_at`

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, email, two_factor_enabled) VALUES (?, ?, ?)`,
		a.ID, a.Email, a.TwoFactorEnabled)
	return mapConstraint(err)
}

func (r *accountsRepo) SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error {
	return r.exec(ctx,
		`UPDATE accounts SET two_factor_enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		enabled, accountID)
}

func (r *accountsRepo) SetChallenge(ctx context.Context, accountID, codeHash string, expiresAt, sentAt time.Time) error {
	// Single statement so readers never see a half-written triple.
	return r.exec(ctx,
		`UPDATE accounts
		 SET two_factor_code_hash = ?, two_factor_code_expires_at = ?,
		     two_factor_code_sent_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		codeHash, expiresAt.UTC(), sentAt.UTC(), accountID)
}

func (r *accountsRepo) ClearChallenge(ctx context.Context, accountID string) error {
	return r.exec(ctx,
		`UPDATE accounts
		 SET two_factor_code_hash = NULL, two_factor_code_expires_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		accountID)
}

func (r *accountsRepo) SetTOTPSecret(ctx context.Context, accountID string, sealed []byte) error {
	return r.exec(ctx,
		`UPDATE accounts
		 SET totp_secret = ?, totp_confirmed_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		sealed, accountID)
}

func (r *accountsRepo) ConfirmTOTP(ctx context.Context, accountID string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE accounts SET totp_confirmed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		at.UTC(), accountID)
}

func (r *accountsRepo) ClearTOTP(ctx context.Context, accountID string) error {
	return r.exec(ctx,
		`UPDATE accounts
		 SET totp_secret = NULL, totp_confirmed_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		accountID)
}

func (r *accountsRepo) DeleteExpiredChallenges(ctx context.Context, before time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE accounts
		 SET two_factor_code_hash = NULL, two_factor_code_expires_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE two_factor_code_expires_at IS NOT NULL AND two_factor_code_expires_at < ?`,
		before.UTC())
	return err
}

// exec runs an UPDATE that must match an existing account, translating a
// zero-row result into store.ErrNotFound.
func (r *accountsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a         domain.Account
		codeHash  sql.NullString
		expiresAt sql.NullTime
		sentAt    sql.NullTime
		confirmed sql.NullTime
	)

	err := row.Scan(
		&a.ID, &a.Email, &a.TwoFactorEnabled, &codeHash,
		&expiresAt, &sentAt, &a.TOTPSecret,
		&confirmed, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.TwoFactorCodeHash = mapNullStringPtr(codeHash)
	a.TwoFactorCodeExpiresAt = mapNullTimePtr(expiresAt)
	a.TwoFactorCodeSentAt = mapNullTimePtr(sentAt)
	a.TOTPConfirmedAt = mapNullTimePtr(confirmed)

	return a, nil
}
