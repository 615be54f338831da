package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trend-herald/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// detailsSpacing is the minimum gap between per-coin detail lookups, to
// respect the free-tier rate limit.
const detailsSpacing = time.Second

// CoinGeckoProvider fetches the trending list and per-coin details from the
// CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	pacer   *Pacer
}

func NewCoinGeckoProvider(apiKey string, tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		pacer:   NewPacer(detailsSpacing),
	}
}

// FetchTrending returns the provider's ranked trending list, headline fields
// only (Details is left nil; enrichment is a separate, paced call).
func (p *CoinGeckoProvider) FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-trending")
	defer span.End()

	url := p.baseURL + "/search/trending"
	if p.apiKey != "" {
		url += "?x_cg_demo_api_key=" + p.apiKey
	}

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}

	var raw struct {
		Coins []struct {
			Item struct {
				ID            string  `json:"id"`
				Name          string  `json:"name"`
				Symbol        string  `json:"symbol"`
				MarketCapRank int     `json:"market_cap_rank"`
				PriceBTC      float64 `json:"price_btc"`
			} `json:"item"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse trending: %w", err)
	}

	coins := make([]*domain.CoinSnapshot, 0, len(raw.Coins))
	for _, c := range raw.Coins {
		coins = append(coins, &domain.CoinSnapshot{
			ID:            c.Item.ID,
			Name:          c.Item.Name,
			Symbol:        strings.ToUpper(c.Item.Symbol),
			MarketCapRank: c.Item.MarketCapRank,
			PriceBTC:      c.Item.PriceBTC,
		})
	}
	return coins, nil
}

// FetchCoinDetails fetches market and developer data for one coin. Calls are
// spaced at least one second apart. Fields the provider omits come back as
// nil pointers, never as an error.
func (p *CoinGeckoProvider) FetchCoinDetails(ctx context.Context, id string) (*domain.CoinDetails, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-coin-details")
	defer span.End()

	if err := p.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("details spacing wait: %w", err)
	}

	url := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=true", p.baseURL, id)
	if p.apiKey != "" {
		url += "&x_cg_demo_api_key=" + p.apiKey
	}

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch details for %s: %w", id, err)
	}

	var raw struct {
		Description map[string]string `json:"description"`
		MarketData  struct {
			CurrentPrice   map[string]float64 `json:"current_price"`
			PriceChange24h *float64           `json:"price_change_percentage_24h"`
			MarketCap      map[string]float64 `json:"market_cap"`
			TotalVolume    map[string]float64 `json:"total_volume"`
		} `json:"market_data"`
		DeveloperData struct {
			Commits4Weeks int `json:"commits_4_weeks"`
			Stars         int `json:"stars"`
		} `json:"developer_data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse details for %s: %w", id, err)
	}

	details := &domain.CoinDetails{
		CurrentPrice:    usdValue(raw.MarketData.CurrentPrice),
		PriceChange24h:  raw.MarketData.PriceChange24h,
		MarketCapUSD:    usdValue(raw.MarketData.MarketCap),
		Volume24hUSD:    usdValue(raw.MarketData.TotalVolume),
		Description:     firstSentence(raw.Description["en"]),
		GithubCommits4w: raw.DeveloperData.Commits4Weeks,
		GithubStars:     raw.DeveloperData.Stars,
	}
	return details, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func usdValue(m map[string]float64) *float64 {
	if m == nil {
		return nil
	}
	v, ok := m["usd"]
	if !ok {
		return nil
	}
	return &v
}

// firstSentence trims a coin description to its first sentence.
func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i]
	}
	return s
}
