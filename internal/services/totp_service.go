package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "KoyDernegi"

var (
	ErrTOTPNotEnrolled = errors.New("2fa is not set up for this account")
	ErrTOTPInvalidCode = errors.New("invalid verification code")
)

// TOTPService manages optional two-factor enrollment for admin accounts
type TOTPService struct {
	Repo *repositories.TOTPRepository
}

func NewTOTPService(repo *repositories.TOTPRepository) *TOTPService {
	return &TOTPService{Repo: repo}
}

// GenerateSetup creates a fresh secret for the member and returns it with a
// QR code. The secret stays disabled until the first code verifies.
func (s *TOTPService) GenerateSetup(ctx context.Context, member *models.Member) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: member.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Upsert(ctx, member.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: member.Email,
	}, nil
}

// VerifyAndEnable checks the first code after setup and flips the enrollment
// on
func (s *TOTPService) VerifyAndEnable(ctx context.Context, memberID int, code string) error {
	secret, err := s.Repo.Get(ctx, memberID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, secret.Secret) {
		return ErrTOTPInvalidCode
	}
	return s.Repo.Enable(ctx, memberID)
}

// Verify checks a login challenge code against an enabled enrollment
func (s *TOTPService) Verify(ctx context.Context, memberID int, code string) error {
	secret, err := s.Repo.Get(ctx, memberID)
	if err != nil {
		return err
	}
	if secret == nil || !secret.Enabled {
		return ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, secret.Secret) {
		return ErrTOTPInvalidCode
	}
	return nil
}

// IsEnabled reports whether the member has completed enrollment
func (s *TOTPService) IsEnabled(ctx context.Context, memberID int) (bool, error) {
	secret, err := s.Repo.Get(ctx, memberID)
	if err != nil {
		return false, err
	}
	return secret != nil && secret.Enabled, nil
}

// Disable removes the enrollment entirely
func (s *TOTPService) Disable(ctx context.Context, memberID int) error {
	return s.Repo.Delete(ctx, memberID)
}
