package models

import "time"

// TOTPSecret holds a member's 2FA enrollment. Enabled only after the first
// successful code verification.
type TOTPSecret struct {
	ID        int       `json:"id"`
	MemberID  int       `json:"member_id"`
	Secret    string    `json:"-"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

// TOTPSetupResponse carries the enrollment secret and QR code for the
// authenticator app
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"` // data:image/png;base64,...
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}
