package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// accountRow is a row of the accounts table without the password hash.
type accountRow struct {
	ID              string
	Username        string
	Email           string
	EmailConfirmed  bool
	AvatarURL       pgtype.Text
	DisplayInitials pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// scanTargets returns the destinations matching accountColumns.
func (r *accountRow) scanTargets() []any {
	return []any{
		&r.ID,
		&r.Username,
		&r.Email,
		&r.EmailConfirmed,
		&r.AvatarURL,
		&r.DisplayInitials,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// pgtype helpers

func textToOptionalString(t pgtype.Text) types.Optional[string] {
	if t.Valid {
		return types.Some(t.String)
	}
	return types.None[string]()
}

func optionalStringToPgText(o types.Optional[string]) pgtype.Text {
	if o.IsPresent() {
		return pgtype.Text{String: o.MustGet(), Valid: true}
	}
	return pgtype.Text{Valid: false}
}

func toAccountModel(row accountRow) (*model.Account, error) {
	id, err := types.ParseID(row.ID)
	if err != nil {
		return nil, err
	}

	return model.ReconstructAccount(
		id,
		row.Username,
		row.Email,
		row.EmailConfirmed,
		textToOptionalString(row.AvatarURL),
		textToOptionalString(row.DisplayInitials),
		types.FromTime(row.CreatedAt),
		types.FromTime(row.UpdatedAt),
	), nil
}
