package analytics

import "math"

// VolatilityLevel classifies price dispersion over a window.
type VolatilityLevel string

const (
	VolatilityUnknown VolatilityLevel = "Unknown"
	VolatilityLow     VolatilityLevel = "Low"
	VolatilityMedium  VolatilityLevel = "Medium"
	VolatilityHigh    VolatilityLevel = "High"
)

// TrendLabel classifies the direction of the fitted price trend.
type TrendLabel string

const (
	TrendStrongUptrend   TrendLabel = "Strong Uptrend"
	TrendUptrend         TrendLabel = "Uptrend"
	TrendSideways        TrendLabel = "Sideways"
	TrendDowntrend       TrendLabel = "Downtrend"
	TrendStrongDowntrend TrendLabel = "Strong Downtrend"
)

// Volatility classifies a chronological price window by coefficient of
// variation (Bessel-corrected sample stddev over mean). Fewer than two
// prices cannot carry a dispersion estimate and classify as Unknown.
func Volatility(prices []float64) VolatilityLevel {
	if len(prices) < 2 {
		return VolatilityUnknown
	}
	m := mean(prices)
	cv := 0.0
	if m != 0 {
		cv = stddev(prices, m) / m
	}
	return classifyCV(cv)
}

func classifyCV(cv float64) VolatilityLevel {
	if cv < 0.01 {
		return VolatilityLow
	}
	if cv < 0.05 {
		return VolatilityMedium
	}
	return VolatilityHigh
}

// Trend fits an ordinary least-squares line to (index, price) points and
// returns the label plus the slope normalised to percent of mean price per
// step, so assets of different magnitudes are comparable.
func Trend(prices []float64) (TrendLabel, float64) {
	n := len(prices)
	if n == 0 {
		return TrendSideways, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, price := range prices {
		x := float64(i)
		sumX += x
		sumY += price
		sumXY += x * price
		sumX2 += x * x
	}

	fn := float64(n)
	slope := 0.0
	// denominator is zero only for n <= 1
	if denom := fn*sumX2 - sumX*sumX; denom != 0 {
		slope = (fn*sumXY - sumX*sumY) / denom
	}

	normSlope := 0.0
	if m := mean(prices); m != 0 {
		normSlope = slope / m * 100
	}

	return classifySlope(normSlope), normSlope
}

// classifySlope evaluates thresholds strictly and in order, so a normalised
// slope of exactly 0.1 stays Sideways.
func classifySlope(normSlope float64) TrendLabel {
	switch {
	case normSlope > 0.5:
		return TrendStrongUptrend
	case normSlope > 0.1:
		return TrendUptrend
	case normSlope < -0.5:
		return TrendStrongDowntrend
	case normSlope < -0.1:
		return TrendDowntrend
	default:
		return TrendSideways
	}
}

// Momentum blends the absolute net change with regression steepness into a
// bounded [0, 10] score. The weights 0.5 and 20 are fixed heuristics.
func Momentum(netChangePct, normSlope float64) float64 {
	score := math.Abs(netChangePct)*0.5 + math.Abs(normSlope)*20
	return math.Min(math.Max(score, 0), 10)
}

// NetChangePercent is the percent change from open to close, 0 when the
// open price is zero.
func NetChangePercent(open, close float64) float64 {
	if open == 0 {
		return 0
	}
	return (close - open) / open * 100
}

func mean(prices []float64) float64 {
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// stddev is the Bessel-corrected sample standard deviation. Callers guard
// len(prices) >= 2.
func stddev(prices []float64, mean float64) float64 {
	sum := 0.0
	for _, p := range prices {
		d := p - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(prices)-1))
}
