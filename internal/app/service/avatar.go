package service

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
)

// MaxAvatarBytes is the largest accepted profile image.
const MaxAvatarBytes = 2 << 20

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AvatarPolicy validates uploads and names stored objects.
type AvatarPolicy struct {
	MaxBytes int
}

// DefaultAvatarPolicy returns the 2 MiB policy.
func DefaultAvatarPolicy() AvatarPolicy {
	return AvatarPolicy{MaxBytes: MaxAvatarBytes}
}

// Check validates the payload and returns its normalized extension.
func (p AvatarPolicy) Check(data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", domainerror.ErrAvatarEmpty
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = MaxAvatarBytes
	}
	if len(data) > limit {
		return "", domainerror.ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := avatarContentTypes[ext]; !ok {
		return "", domainerror.ErrAvatarUnsupportedType
	}
	return ext, nil
}

// ContentType returns the declared type, falling back to one derived from ext.
func (p AvatarPolicy) ContentType(declared, ext string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return avatarContentTypes[ext]
}

// ObjectKey returns a fresh key of the form <accountID>/<uuid><ext>.
func (p AvatarPolicy) ObjectKey(accountID types.ID, ext string) string {
	return avatarKeyPrefix(accountID) + uuid.NewString() + ext
}

// AvatarKeyOwnedBy reports whether key lives under accountID's prefix.
func AvatarKeyOwnedBy(accountID types.ID, key string) bool {
	if accountID.IsEmpty() {
		return false
	}
	rest, ok := strings.CutPrefix(key, avatarKeyPrefix(accountID))
	return ok && rest != "" && !strings.Contains(rest, "/")
}

func avatarKeyPrefix(accountID types.ID) string {
	return accountID.String() + "/"
}
