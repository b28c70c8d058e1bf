package record

import (
	"sort"
	"strings"
)

// classifyRating buckets a free-form rating label into buy/hold/sell.
// Labels that match none of the known vocabularies are dropped by
// BuildConsensus rather than silently counted.
func classifyRating(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return "", false
	case strings.Contains(l, "strong buy"), strings.Contains(l, "buy"),
		strings.Contains(l, "outperform"), strings.Contains(l, "overweight"),
		strings.Contains(l, "accumulate"), strings.Contains(l, "positive"):
		return "buy", true
	case strings.Contains(l, "strong sell"), strings.Contains(l, "sell"),
		strings.Contains(l, "underperform"), strings.Contains(l, "underweight"),
		strings.Contains(l, "reduce"), strings.Contains(l, "negative"):
		return "sell", true
	case strings.Contains(l, "hold"), strings.Contains(l, "neutral"),
		strings.Contains(l, "market perform"), strings.Contains(l, "equal-weight"),
		strings.Contains(l, "equal weight"), strings.Contains(l, "maintain"):
		return "hold", true
	}
	return "", false
}

// BuildConsensus derives a consensus from individual ratings.
// Ratings with a zero price target still count toward buy/hold/sell but
// are excluded from the target statistics. Median of an even set is the
// mean of the two middle values.
func BuildConsensus(symbol string, ratings []AnalystRating) RatingConsensus {
	c := RatingConsensus{Symbol: symbol}

	targets := make([]float64, 0, len(ratings))
	for _, r := range ratings {
		bucket, ok := classifyRating(r.Rating)
		if !ok {
			continue
		}
		switch bucket {
		case "buy":
			c.Buy++
		case "hold":
			c.Hold++
		case "sell":
			c.Sell++
		}
		if r.PriceTarget > 0 {
			targets = append(targets, r.PriceTarget)
		}
	}

	if len(targets) == 0 {
		return c
	}

	sort.Float64s(targets)
	var sum float64
	for _, t := range targets {
		sum += t
	}
	c.AverageTarget = sum / float64(len(targets))
	c.LowTarget = targets[0]
	c.HighTarget = targets[len(targets)-1]
	mid := len(targets) / 2
	if len(targets)%2 == 0 {
		c.MedianTarget = (targets[mid-1] + targets[mid]) / 2
	} else {
		c.MedianTarget = targets[mid]
	}
	return c
}
