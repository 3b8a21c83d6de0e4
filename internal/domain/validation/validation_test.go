package validation_test

import (
	"strings"
	"testing"

	"github.com/0xsj/overwatch-profile/internal/domain/validation"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "ab", true},
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 20), false},
		{"too long", strings.Repeat("a", 21), true},
		{"underscore and digits", "bob_99", false},
		{"hyphen", "bob-99", true},
		{"space", "bob 99", true},
		{"non ascii letter", "bobé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validation.ValidateUsername(tt.input)
			if (msg != "") != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %q, wantErr %v", tt.input, msg, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"plain", "alice@example.com", false},
		{"subdomain", "a.b@mail.example.co", false},
		{"missing at", "alice.example.com", true},
		{"missing dot after at", "alice@example", true},
		{"whitespace", "alice @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validation.ValidateEmail(tt.input)
			if (msg != "") != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %q, wantErr %v", tt.input, msg, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "password is required"},
		{"too short", "Aa1!", "password must be at least 8 characters"},
		{"no upper", "abcdef1!", "password must contain an uppercase letter"},
		{"no lower", "ABCDEF1!", "password must contain a lowercase letter"},
		{"no digit", "Abcdefg!", "password must contain a digit"},
		{"no symbol", "Abcdefg1", "password must contain a symbol"},
		{"valid", "Str0ng!pass", ""},
		{"space counts as symbol", "Str0ng pass", ""},
		{"at byte limit", "Str0ng!" + strings.Repeat("a", 65), ""},
		{"over byte limit", "Str0ng!" + strings.Repeat("a", 66), "password must be at most 72 bytes"},
		{"multibyte over limit", "Str0ng!" + strings.Repeat("é", 33), "password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validation.ValidatePassword(tt.input); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAvatarURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://cdn.example.com/a.png", false},
		{"http://localhost:9000/avatars/a.png", false},
		{"ftp://cdn.example.com/a.png", true},
		{"/avatars/a.png", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			msg := validation.ValidateAvatarURL(tt.input)
			if (msg != "") != tt.wantErr {
				t.Errorf("ValidateAvatarURL(%q) = %q, wantErr %v", tt.input, msg, tt.wantErr)
			}
		})
	}
}
