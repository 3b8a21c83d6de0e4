package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// --- pgtype helper tests ---

func TestTextToOptionalString(t *testing.T) {
	t.Run("valid text", func(t *testing.T) {
		result := textToOptionalString(pgtype.Text{String: "hello", Valid: true})

		if !result.IsPresent() {
			t.Fatal("result should be present")
		}
		if result.MustGet() != "hello" {
			t.Errorf("result = %v, want hello", result.MustGet())
		}
	})

	t.Run("invalid text", func(t *testing.T) {
		result := textToOptionalString(pgtype.Text{Valid: false})

		if result.IsPresent() {
			t.Error("result should not be present")
		}
	})
}

func TestOptionalStringToPgText(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		result := optionalStringToPgText(types.Some("hello"))

		if !result.Valid || result.String != "hello" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("absent", func(t *testing.T) {
		if result := optionalStringToPgText(types.None[string]()); result.Valid {
			t.Error("result should not be valid")
		}
	})
}

// --- row mapping ---

func TestToAccountModel(t *testing.T) {
	id := types.NewID()
	now := time.Now().UTC().Truncate(time.Second)

	row := accountRow{
		ID:              id.String(),
		Username:        "alice",
		Email:           "alice@example.com",
		EmailConfirmed:  true,
		AvatarURL:       pgtype.Text{String: "https://cdn.example.com/a.png", Valid: true},
		DisplayInitials: pgtype.Text{Valid: false},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	acc, err := toAccountModel(row)
	if err != nil {
		t.Fatalf("toAccountModel() error = %v", err)
	}

	if acc.ID() != id {
		t.Errorf("ID = %v, want %v", acc.ID(), id)
	}
	if acc.Username() != "alice" || acc.Email() != "alice@example.com" {
		t.Errorf("account = %s / %s", acc.Username(), acc.Email())
	}
	if !acc.EmailConfirmed() {
		t.Error("EmailConfirmed should be true")
	}
	if acc.AvatarURL().MustGet() != "https://cdn.example.com/a.png" {
		t.Errorf("AvatarURL = %v", acc.AvatarURL().MustGet())
	}
	if acc.DisplayInitials().IsPresent() {
		t.Error("DisplayInitials should be absent")
	}
	if !acc.CreatedAt().Time().Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", acc.CreatedAt().Time(), now)
	}
}

func TestToAccountModel_InvalidID(t *testing.T) {
	if _, err := toAccountModel(accountRow{ID: ""}); err == nil {
		t.Error("toAccountModel() should fail for an invalid ID")
	}
}

// --- error mapping ---

func TestConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username", &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraintUsername}, repository.ErrUsernameConflict},
		{"email", &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraintEmail}, repository.ErrEmailConflict},
		{"other violation", &pgconn.PgError{Code: "23503"}, nil},
		{"plain error", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conflictError(tt.err); got != tt.want {
				t.Errorf("conflictError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDBStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, statusOK},
		{repository.ErrNotFound, statusNotFound},
		{repository.ErrEmailConflict, statusConflict},
		{repository.ErrPasswordMismatch, statusMismatch},
		{errors.New("boom"), statusError},
	}

	for _, tt := range tests {
		if got := dbStatus(tt.err); got != tt.want {
			t.Errorf("dbStatus(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
