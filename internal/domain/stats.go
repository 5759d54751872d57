package domain

// Stats are the server-side totals over the whole history.
type Stats struct {
	TotalMessages int `json:"totalMessages"`
	TotalTokens   int `json:"totalTokens"`
}
