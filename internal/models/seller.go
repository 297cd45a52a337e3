package models

import "time"

// SellerStatus enumerates the seller verification lifecycle.
type SellerStatus string

const (
	SellerUnverified SellerStatus = "Unverified"
	SellerPending    SellerStatus = "Pending"
	SellerVerified   SellerStatus = "Verified"
	SellerSuspended  SellerStatus = "Suspended"
)

// ValidSellerStatus reports whether s is a defined status value.
func ValidSellerStatus(s SellerStatus) bool {
	switch s {
	case SellerUnverified, SellerPending, SellerVerified, SellerSuspended:
		return true
	}
	return false
}

// Seller is the on-ledger record for a seller account, keyed by address.
// Balance is in the smallest currency unit and only ever moves up through
// settlements and down through withdrawal.
type Seller struct {
	Address       string       `db:"address" json:"address"`
	BusinessName  string       `db:"business_name" json:"businessName"`
	Description   string       `db:"description" json:"description"`
	Email         string       `db:"email" json:"email"`
	Phone         string       `db:"phone" json:"phone"`
	Logo          string       `db:"logo" json:"logo"`
	TermsAccepted bool         `db:"terms_accepted" json:"termsAccepted"`
	Status        SellerStatus `db:"status" json:"status"`
	Balance       int64        `db:"balance" json:"balance"`
	RegisteredAt  time.Time    `db:"registered_at" json:"registeredAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"-"`

	// Populated from the products table, not a column.
	ProductIDs []int64 `db:"-" json:"productIds,omitempty"`
}

// SellerProfile is the profile subset exposed to catalog consumers.
type SellerProfile struct {
	BusinessName  string    `json:"businessName"`
	Description   string    `json:"description"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Logo          string    `json:"logo"`
	RegisteredAt  time.Time `json:"registeredAt"`
	TermsAccepted bool      `json:"termsAccepted"`
}

// Profile extracts the profile view of a seller record.
func (s *Seller) Profile() SellerProfile {
	return SellerProfile{
		BusinessName:  s.BusinessName,
		Description:   s.Description,
		Email:         s.Email,
		Phone:         s.Phone,
		Logo:          s.Logo,
		RegisteredAt:  s.RegisteredAt,
		TermsAccepted: s.TermsAccepted,
	}
}
