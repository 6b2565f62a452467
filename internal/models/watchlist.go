package models

// WatchlistEntry is a company a user tracks without holding it.
// Entries are inserted on add and deleted by ticker, never mutated.
type WatchlistEntry struct {
	CompanyTicker string `json:"companyTicker"`
	CompanyName   string `json:"companyName"`
	Query         string `json:"query"`
}
