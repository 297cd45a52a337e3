package models

// Principal is the identity a core call is made on behalf of. The
// services validate it against ownership and role fields instead of
// relying on any ambient context, which keeps the ledger core testable
// without a live execution substrate.
type Principal struct {
	Address string
	Admin   bool
}
