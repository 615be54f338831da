// Package compose turns an enriched trending set into a bounded-length
// thread of post bodies. Like analysis, it is pure formatting with no I/O.
package compose

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"trend-herald/internal/analysis"
	"trend-herald/internal/domain"
)

// maxDeepDives caps how many coins get a dedicated post.
const maxDeepDives = 3

const descriptionEllipsis = "…"

// FormatPrice renders a price for a deep-dive post.
// nil or NaN → "N/A"; 0 → "" (the caller omits the line entirely);
// below one cent → scientific notation with two decimal digits;
// otherwise → currency with exactly two decimals and thousands separators.
func FormatPrice(p *float64) string {
	if p == nil || math.IsNaN(*p) {
		return "N/A"
	}
	v := *p
	if v == 0 {
		return ""
	}
	if v < 0.01 {
		return strconv.FormatFloat(v, 'e', 2, 64)
	}
	return "$" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	return b.String() + frac
}

// Compose builds the thread for the given trending set: one summary post
// listing up to three coins, then one deep-dive post per listed coin in the
// same order. Fails with domain.ErrThreadTooLong when a post cannot be
// brought under the platform limit.
func Compose(trending []*domain.CoinSnapshot) (domain.Thread, error) {
	selected := trending
	if len(selected) > maxDeepDives {
		selected = selected[:maxDeepDives]
	}

	thread := make(domain.Thread, 0, 1+len(selected))

	summary, err := summaryPost(selected)
	if err != nil {
		return nil, err
	}
	thread = append(thread, summary)

	for _, coin := range selected {
		post, err := deepDivePost(coin)
		if err != nil {
			return nil, err
		}
		thread = append(thread, post)
	}

	return thread, nil
}

func summaryPost(coins []*domain.CoinSnapshot) (string, error) {
	var b strings.Builder
	b.WriteString("🚀 Crypto Trending Analysis\n\n")
	for i, coin := range coins {
		fmt.Fprintf(&b, "%d. $%s\n", i+1, coin.Symbol)
	}
	b.WriteString("\nDetailed analysis in thread 🧵\n#Crypto #Trading")

	post := b.String()
	if utf8.RuneCountInString(post) > domain.MaxPostLen {
		return "", fmt.Errorf("%w: summary post is %d runes", domain.ErrThreadTooLong, utf8.RuneCountInString(post))
	}
	return post, nil
}

func deepDivePost(coin *domain.CoinSnapshot) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 $%s Deep Dive\n\n", coin.Symbol)

	if coin.Details != nil {
		if price := FormatPrice(coin.Details.CurrentPrice); price != "" {
			fmt.Fprintf(&b, "💰 Price: %s\n", price)
		}
		if mc := coin.Details.MarketCapUSD; mc != nil && *mc > 0 {
			fmt.Fprintf(&b, "📊 Market Cap: $%.2fM\n", *mc/1e6)
		}
	}

	fmt.Fprintf(&b, "📈 Rank: #%s\n\n", rankLabel(coin.MarketCapRank))

	if coin.Details != nil {
		b.WriteString(strings.Join(analysis.Analyze(coin.Details), analysis.InsightSeparator))
		b.WriteString("\n\n")
	}

	body := b.String()
	tags := fmt.Sprintf("#%s #Crypto", coin.Symbol)

	desc := ""
	if coin.Details != nil && coin.Details.Description != "" {
		desc = "💡 " + coin.Details.Description + "\n\n"
	}

	post := body + desc + tags
	if utf8.RuneCountInString(post) <= domain.MaxPostLen {
		return post, nil
	}

	// Over budget: shrink the description first, dropping it entirely if the
	// remaining room cannot hold a useful fragment.
	budget := domain.MaxPostLen - utf8.RuneCountInString(body) - utf8.RuneCountInString(tags)
	desc = truncateDescription(desc, budget)

	post = body + desc + tags
	if utf8.RuneCountInString(post) > domain.MaxPostLen {
		return "", fmt.Errorf("%w: $%s deep dive is %d runes", domain.ErrThreadTooLong, coin.Symbol, utf8.RuneCountInString(post))
	}
	return post, nil
}

// truncateDescription fits desc (already wrapped as "💡 ...\n\n") into budget
// runes, or returns "" when even a short fragment will not fit.
func truncateDescription(desc string, budget int) string {
	const minUseful = 12 // "💡 " + a few characters + "…\n\n"
	if desc == "" || budget < minUseful {
		return ""
	}
	if utf8.RuneCountInString(desc) <= budget {
		return desc
	}

	runes := []rune(strings.TrimSuffix(desc, "\n\n"))
	keep := budget - utf8.RuneCountInString(descriptionEllipsis) - 2 // trailing "\n\n"
	if keep >= len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + descriptionEllipsis + "\n\n"
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "N/A"
	}
	return strconv.Itoa(rank)
}
