package models

// Position is an aggregated holding of one ticker. Quantity is the
// total shares held and TotalCost the cumulative cost basis (not
// cost-per-share); both are 2-decimal fixed strings. A position is
// created on first buy, updated in place, and deleted once a sell
// takes the quantity to zero or below.
type Position struct {
	CompanyTicker string `json:"companyTicker"`
	CompanyName   string `json:"companyName"`
	Quantity      string `json:"quantity"`
	TotalCost     string `json:"totalCost"`
	Query         string `json:"query"`
}
