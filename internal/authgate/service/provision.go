package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/authgate/internal/authgate/domain"
	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/pkg/identity"
)

// ensureAccount loads the account for a verified principal, materialising the
// row on first contact. Account identity lives with the identity provider;
// this service only keeps the step-up state keyed by its stable ID.
func ensureAccount(ctx context.Context, accounts store.Accounts, p identity.Principal) (domain.Account, error) {
	acct, err := accounts.GetAccountByID(ctx, p.AccountID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}

	create := domain.Account{ID: p.AccountID, Email: p.Email}
	if err := accounts.CreateAccount(ctx, create); err != nil {
		// A concurrent request may have provisioned the row first.
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, fmt.Errorf("provision account: %w", err)
		}
	}

	acct, err = accounts.GetAccountByID(ctx, p.AccountID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("reload account: %w", err)
	}
	return acct, nil
}
