package http

import (
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// UpdateProfileRequest is a partial update; omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	ConfirmPassword *string `json:"confirmPassword"`
	AvatarURL       *string `json:"avatarUrl"`
}

type UpdateUsernameRequest struct {
	Username *string `json:"username"`
}

type UpdateEmailRequest struct {
	Email *string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	ConfirmPassword *string `json:"confirmPassword"`
}

// ProfileResponse is the JSON shape of model.Profile.
type ProfileResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Initials  *string `json:"initials,omitempty"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

func toProfileResponse(p model.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:       p.ID.String(),
		Username: p.Username,
		Email:    p.Email,
	}

	if p.AvatarURL.IsPresent() {
		url := p.AvatarURL.MustGet()
		resp.AvatarURL = &url
	}

	if p.Initials.IsPresent() {
		initials := p.Initials.MustGet()
		resp.Initials = &initials
	}

	return resp
}

func toOptionalString(s *string) types.Optional[string] {
	if s == nil {
		return types.None[string]()
	}
	return types.Some(*s)
}
