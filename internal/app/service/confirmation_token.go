package service

import (
	"strings"
	"time"

	"github.com/0xsj/overwatch-pkg/security"
	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
)

const claimEmail = "email"

// ConfirmationTokens signs and verifies email-confirmation tokens.
type ConfirmationTokens interface {
	// Issue creates a token binding accountID to email.
	Issue(accountID types.ID, email string) (string, error)

	// Verify checks the token and that it was issued for email.
	Verify(token, email string) (types.ID, error)
}

// ConfirmationTokenConfig holds configuration for confirmation tokens.
type ConfirmationTokenConfig struct {
	Issuer     string
	Audience   string
	TTL        time.Duration
	SigningKey []byte
}

// confirmationTokens implements ConfirmationTokens.
type confirmationTokens struct {
	config ConfirmationTokenConfig
	signer *security.HMACSigner
}

// NewConfirmationTokens creates a new ConfirmationTokens.
func NewConfirmationTokens(config ConfirmationTokenConfig) (ConfirmationTokens, error) {
	signer, err := security.NewHMACSigner(security.AlgorithmHS256, config.SigningKey)
	if err != nil {
		return nil, err
	}
	if config.TTL <= 0 {
		config.TTL = 48 * time.Hour
	}

	return &confirmationTokens{
		config: config,
		signer: signer,
	}, nil
}

func (s *confirmationTokens) Issue(accountID types.ID, email string) (string, error) {
	now := time.Now().UTC()

	claims := security.NewClaims().
		WithSubject(accountID.String()).
		WithIssuer(s.config.Issuer).
		WithAudience(s.config.Audience).
		WithIssuedAt(now).
		WithExpirationTime(now.Add(s.config.TTL)).
		WithRandomJWTID().
		Set(claimEmail, strings.ToLower(email))

	return security.SignJWT(claims, s.signer)
}

func (s *confirmationTokens) Verify(token, email string) (types.ID, error) {
	opts := security.JWTVerifyOptions{
		ValidateExpiration: true,
		ValidateNotBefore:  true,
		ExpectedIssuer:     s.config.Issuer,
		ExpectedAudience:   s.config.Audience,
	}

	jwt, err := security.VerifyJWTWithOptions(token, s.signer, opts)
	if err != nil {
		return "", domainerror.ErrConfirmationTokenInvalid
	}

	bound, ok := jwt.Claims.GetString(claimEmail)
	if !ok || !strings.EqualFold(bound, email) {
		return "", domainerror.ErrConfirmationTokenInvalid
	}

	accountID := types.ID(jwt.Claims.Subject)
	if accountID.IsEmpty() {
		return "", domainerror.ErrConfirmationTokenInvalid
	}

	return accountID, nil
}
