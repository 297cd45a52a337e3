package models

import "time"

// PayoutKind distinguishes why funds leave the ledger.
type PayoutKind string

const (
	PayoutWithdrawal PayoutKind = "withdrawal"
	PayoutRefund     PayoutKind = "refund"
)

// PayoutStatus tracks delivery of funds to the settlement gateway.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutSent    PayoutStatus = "sent"
	PayoutFailed  PayoutStatus = "failed"
)

// Payout is an outbound transfer owed to an address. The ledger balance
// is debited in the same transaction that creates the payout, so a
// transfer retry can never pay twice.
type Payout struct {
	ID        int64        `db:"id" json:"id"`
	Address   string       `db:"address" json:"address"`
	Amount    int64        `db:"amount" json:"amount"`
	Kind      PayoutKind   `db:"kind" json:"kind"`
	Reference string       `db:"reference" json:"reference"`
	Status    PayoutStatus `db:"status" json:"status"`
	Attempts  int          `db:"attempts" json:"attempts"`
	LastError *string      `db:"last_error" json:"lastError,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	SentAt    *time.Time   `db:"sent_at" json:"sentAt,omitempty"`
}
