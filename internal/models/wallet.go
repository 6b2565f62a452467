package models

// WalletRecord is the single cash balance funding purchases and
// receiving sale proceeds. Exactly one row is expected to exist;
// the balance is stored as a 2-decimal fixed string.
type WalletRecord struct {
	Balance string `json:"balance"`
}
