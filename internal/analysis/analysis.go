// Package analysis derives qualitative insight strings from coin details.
// Everything here is pure: no I/O, no randomness, identical input always
// yields identical output.
package analysis

import (
	"fmt"

	"trend-herald/internal/domain"
)

// FallbackInsight is produced when no rule fires.
const FallbackInsight = "Trending, but exercise caution"

// InsightSeparator joins insights into a single post line.
const InsightSeparator = " | "

// Analyze evaluates the insight rules against d. Rules are grouped per
// category, at most one tier per category fires, and a field the provider
// omitted silently disables its category.
func Analyze(d *domain.CoinDetails) []string {
	if d == nil {
		return nil
	}

	var insights []string

	if d.PriceChange24h != nil {
		switch {
		case *d.PriceChange24h > 5:
			insights = append(insights, fmt.Sprintf("🚀 Strong upward momentum (%.1f%% in 24h)", *d.PriceChange24h))
		case *d.PriceChange24h < -5:
			insights = append(insights, fmt.Sprintf("📉 Significant price drop (%.1f%% in 24h)", *d.PriceChange24h))
		}
	}

	switch {
	case d.GithubCommits4w > 100:
		insights = append(insights, "👨‍💻 Very high development activity")
	case d.GithubCommits4w > 50:
		insights = append(insights, "👨‍💻 High development activity")
	}

	// Volume ratio is undefined when market cap is absent or zero.
	if d.Volume24hUSD != nil && d.MarketCapUSD != nil && *d.MarketCapUSD > 0 {
		ratio := *d.Volume24hUSD / *d.MarketCapUSD
		switch {
		case ratio > 0.3:
			insights = append(insights, "💹 Exceptionally high trading volume")
		case ratio > 0.2:
			insights = append(insights, "💹 High trading volume")
		}
	}

	switch {
	case d.GithubStars > 5000:
		insights = append(insights, "⭐ Highly popular project")
	case d.GithubStars > 1000:
		insights = append(insights, "⭐ Popular project")
	}

	if len(insights) == 0 {
		return []string{FallbackInsight}
	}
	return insights
}
