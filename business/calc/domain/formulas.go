package domain

import "github.com/shopspring/decimal"

// Display sentinels for degraded results. Invalid or partial user input
// never produces an error, only the zero-equivalent value.
const (
	ZeroPercent = "0.00"
	ZeroPrice   = "0.0000"
)

var (
	hoursPerDay  = decimal.NewFromInt(24)
	daysPerMonth = decimal.NewFromInt(30)
	daysPerYear  = decimal.NewFromInt(365)
	oneHundred   = decimal.NewFromInt(100)
)

// parseField parses raw user text as a decimal, degrading to zero.
func parseField(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PercentageDiff computes ((a − b) / b) × 100 at two decimal places.
// A parse failure on either side or a zero denominator yields ZeroPercent.
func PercentageDiff(a, b string) string {
	pa, errA := decimal.NewFromString(a)
	pb, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil || pb.IsZero() {
		return ZeroPercent
	}
	return pa.Sub(pb).Div(pb).Mul(oneHundred).StringFixed(2)
}

// AveragePrice computes the weighted average entry price: the sum of the
// purchase values divided by the total coin count, at four decimal places.
// Unparseable purchase rows count as zero; a non-positive total degrades
// to ZeroPrice.
func AveragePrice(totalCoins string, purchases []PurchaseEntry) string {
	total, err := decimal.NewFromString(totalCoins)
	if err != nil || !total.IsPositive() {
		return ZeroPrice
	}

	sum := decimal.Zero
	for _, p := range purchases {
		sum = sum.Add(parseField(p.Value))
	}
	return sum.Div(total).StringFixed(4)
}

// FundingResult is the funding carry projection.
type FundingResult struct {
	NetRate       decimal.Decimal // shortRate − longRate, as a fraction
	PeriodProfit  decimal.Decimal // USD per funding interval
	DailyProfit   decimal.Decimal
	MonthlyProfit decimal.Decimal // daily × 30, not calendar-aware
	AnnualProfit  decimal.Decimal // daily × 365
	Margin        decimal.Decimal // positionSize / leverage
	APY           decimal.Decimal // annual / margin × 100
}

// IsZero reports whether the projection degraded to the zero sentinel.
func (r FundingResult) IsZero() bool {
	return r.NetRate.IsZero() && r.PeriodProfit.IsZero()
}

// FundingProjection projects the P&L of a short/long funding-rate carry.
// Rates are entered as percentages (e.g. "-0.18"). Every division is gated
// on a positive denominator and degrades to zero instead of failing.
func FundingProjection(positionSize, leverage, intervalHours, shortRate, longRate string) FundingResult {
	position := parseField(positionSize)
	lev := parseField(leverage)
	interval := parseField(intervalHours)
	short := parseField(shortRate).Div(oneHundred)
	long := parseField(longRate).Div(oneHundred)

	netRate := short.Sub(long)
	periodProfit := position.Mul(netRate)

	daily := decimal.Zero
	if interval.IsPositive() {
		daily = periodProfit.Mul(hoursPerDay.Div(interval))
	}

	margin := decimal.Zero
	if position.IsPositive() && lev.IsPositive() {
		margin = position.Div(lev)
	}

	annual := daily.Mul(daysPerYear)
	apy := decimal.Zero
	if margin.IsPositive() {
		apy = annual.Div(margin).Mul(oneHundred)
	}

	return FundingResult{
		NetRate:       netRate,
		PeriodProfit:  periodProfit,
		DailyProfit:   daily,
		MonthlyProfit: daily.Mul(daysPerMonth),
		AnnualProfit:  annual,
		Margin:        margin,
		APY:           apy,
	}
}
