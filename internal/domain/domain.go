package domain

import "time"

// MaxPostLen is the platform's maximum post length in characters (runes).
const MaxPostLen = 280

// CoinDetails holds per-coin market and developer data from the provider.
// Pointer fields are nil when the provider omitted them; absence disables
// the insights that depend on them, it is never an error.
type CoinDetails struct {
	CurrentPrice    *float64 `json:"current_price,omitempty"`
	PriceChange24h  *float64 `json:"price_change_24h,omitempty"`
	MarketCapUSD    *float64 `json:"market_cap,omitempty"`
	Volume24hUSD    *float64 `json:"volume_24h,omitempty"`
	Description     string   `json:"description,omitempty"`
	GithubCommits4w int      `json:"github_commits"`
	GithubStars     int      `json:"github_stars"`
}

// CoinSnapshot is one entry of the trending set, in provider trending order.
// Details is nil when enrichment failed for this coin; the snapshot still
// appears in the headline listing.
type CoinSnapshot struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Symbol        string       `json:"symbol"`
	MarketCapRank int          `json:"market_cap_rank"` // 0 = unranked
	PriceBTC      float64      `json:"price_btc"`
	Details       *CoinDetails `json:"details,omitempty"`
}

// Thread is an ordered list of post bodies. Element 0 is the summary post,
// the rest are deep-dive posts in summary order.
type Thread []string

// PublishResult records one published post of a thread. InReplyTo is empty
// for the summary post and otherwise holds the previous post's id.
type PublishResult struct {
	PostID    string `json:"post_id"`
	InReplyTo string `json:"in_reply_to,omitempty"`
}

// Credential is the durable outcome of a completed authorization.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// PublishedThread is a persisted publish-history entry. Complete is false
// when the publish aborted mid-thread and only a prefix made it out.
type PublishedThread struct {
	ID        int64           `json:"id"`
	PostedAt  time.Time       `json:"posted_at"`
	Symbols   []string        `json:"symbols"`
	PostCount int             `json:"post_count"`
	Complete  bool            `json:"complete"`
	Posts     []PublishResult `json:"posts,omitempty"`
}
