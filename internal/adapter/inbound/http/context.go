package http

import (
	"context"
	"errors"

	"github.com/0xsj/overwatch-pkg/types"
)

type contextKey string

const accountIDKey contextKey = "account_id"

var ErrNoAccountIDInContext = errors.New("no account_id in context")

// WithAccountID adds the authenticated account ID to the context.
func WithAccountID(ctx context.Context, accountID types.ID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext retrieves the authenticated account ID from the context.
func AccountIDFromContext(ctx context.Context) (types.ID, error) {
	accountID, ok := ctx.Value(accountIDKey).(types.ID)
	if !ok || accountID.IsEmpty() {
		return "", ErrNoAccountIDInContext
	}
	return accountID, nil
}
