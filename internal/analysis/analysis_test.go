package analysis

import (
	"reflect"
	"strings"
	"testing"

	"trend-herald/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestAnalyzePriceMomentum(t *testing.T) {
	up := Analyze(&domain.CoinDetails{PriceChange24h: fp(6.23)})
	if len(up) != 1 || !strings.Contains(up[0], "Strong upward momentum (6.2% in 24h)") {
		t.Fatalf("unexpected insights: %v", up)
	}

	down := Analyze(&domain.CoinDetails{PriceChange24h: fp(-7.5)})
	if len(down) != 1 || !strings.Contains(down[0], "Significant price drop (-7.5% in 24h)") {
		t.Fatalf("unexpected insights: %v", down)
	}
	if strings.Contains(down[0], "momentum") {
		t.Fatal("drop insight must exclude the momentum insight")
	}

	// Inside the dead band neither tier fires.
	flat := Analyze(&domain.CoinDetails{PriceChange24h: fp(3)})
	if flat[0] != FallbackInsight {
		t.Fatalf("expected fallback for flat price, got %v", flat)
	}
}

func TestAnalyzeDevActivityTiers(t *testing.T) {
	tests := []struct {
		commits  int
		expected string
	}{
		{150, "Very high development activity"},
		{101, "Very high development activity"},
		{100, "High development activity"},
		{51, "High development activity"},
		{50, FallbackInsight},
		{0, FallbackInsight},
	}
	for _, tc := range tests {
		got := Analyze(&domain.CoinDetails{GithubCommits4w: tc.commits})
		if len(got) != 1 || !strings.Contains(got[0], tc.expected) {
			t.Fatalf("commits=%d: expected %q, got %v", tc.commits, tc.expected, got)
		}
	}
}

func TestAnalyzeVolumeRatio(t *testing.T) {
	high := Analyze(&domain.CoinDetails{Volume24hUSD: fp(35), MarketCapUSD: fp(100)})
	if len(high) != 1 || !strings.Contains(high[0], "Exceptionally high trading volume") {
		t.Fatalf("unexpected insights: %v", high)
	}

	mid := Analyze(&domain.CoinDetails{Volume24hUSD: fp(25), MarketCapUSD: fp(100)})
	if len(mid) != 1 || mid[0] != "💹 High trading volume" {
		t.Fatalf("unexpected insights: %v", mid)
	}

	// Ratio undefined: zero or absent market cap skips the category.
	skipped := Analyze(&domain.CoinDetails{Volume24hUSD: fp(25), MarketCapUSD: fp(0)})
	if skipped[0] != FallbackInsight {
		t.Fatalf("expected fallback for zero market cap, got %v", skipped)
	}
	skipped = Analyze(&domain.CoinDetails{Volume24hUSD: fp(25)})
	if skipped[0] != FallbackInsight {
		t.Fatalf("expected fallback for absent market cap, got %v", skipped)
	}
}

func TestAnalyzeStarsTiers(t *testing.T) {
	if got := Analyze(&domain.CoinDetails{GithubStars: 6000}); got[0] != "⭐ Highly popular project" {
		t.Fatalf("unexpected insights: %v", got)
	}
	if got := Analyze(&domain.CoinDetails{GithubStars: 1500}); got[0] != "⭐ Popular project" {
		t.Fatalf("unexpected insights: %v", got)
	}
	if got := Analyze(&domain.CoinDetails{GithubStars: 1000}); got[0] != FallbackInsight {
		t.Fatalf("expected fallback at boundary, got %v", got)
	}
}

func TestAnalyzeAllCategories(t *testing.T) {
	d := &domain.CoinDetails{
		PriceChange24h:  fp(10),
		GithubCommits4w: 200,
		Volume24hUSD:    fp(40),
		MarketCapUSD:    fp(100),
		GithubStars:     10000,
	}
	got := Analyze(d)
	if len(got) != 4 {
		t.Fatalf("expected one insight per category, got %v", got)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	d := &domain.CoinDetails{PriceChange24h: fp(8), GithubStars: 2000}
	first := Analyze(d)
	for i := 0; i < 5; i++ {
		if got := Analyze(d); !reflect.DeepEqual(got, first) {
			t.Fatalf("expected identical output, got %v vs %v", got, first)
		}
	}
}

func TestAnalyzeNilDetails(t *testing.T) {
	if got := Analyze(nil); got != nil {
		t.Fatalf("expected nil for nil details, got %v", got)
	}
}
