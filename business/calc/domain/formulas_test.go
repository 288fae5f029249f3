package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercentageDiff(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{
			name: "positive_spread",
			a:    "110",
			b:    "100",
			want: "10.00",
		},
		{
			name: "negative_spread",
			a:    "95",
			b:    "100",
			want: "-5.00",
		},
		{
			name: "equal_prices",
			a:    "3400",
			b:    "3400",
			want: "0.00",
		},
		{
			name: "fractional_result_rounds_to_2dp",
			a:    "100.5",
			b:    "99.1",
			want: "1.41", // (1.4/99.1)*100 = 1.4127...
		},
		{
			name: "zero_denominator",
			a:    "100",
			b:    "0",
			want: "0.00",
		},
		{
			name: "non_numeric_numerator",
			a:    "abc",
			b:    "100",
			want: "0.00",
		},
		{
			name: "non_numeric_denominator",
			a:    "100",
			b:    "1.2.3",
			want: "0.00",
		},
		{
			name: "empty_inputs",
			a:    "",
			b:    "",
			want: "0.00",
		},
		{
			name: "partial_user_input",
			a:    "100.",
			b:    "50",
			want: "100.00", // decimal accepts a trailing dot
		},
		{
			name: "small_numbers",
			a:    "0.00101",
			b:    "0.001",
			want: "1.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentageDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("PercentageDiff(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func purchases(values ...string) []PurchaseEntry {
	out := make([]PurchaseEntry, 0, len(values))
	for _, v := range values {
		p := NewPurchaseEntry()
		p.Value = v
		out = append(out, p)
	}
	return out
}

func TestAveragePrice(t *testing.T) {
	tests := []struct {
		name      string
		coins     string
		purchases []PurchaseEntry
		want      string
	}{
		{
			name:      "two_equal_purchases",
			coins:     "2",
			purchases: purchases("1000", "1000"),
			want:      "1000.0000",
		},
		{
			name:      "uneven_purchases",
			coins:     "3",
			purchases: purchases("100", "200"),
			want:      "100.0000",
		},
		{
			name:      "zero_coins",
			coins:     "0",
			purchases: purchases("1000"),
			want:      "0.0000",
		},
		{
			name:      "negative_coins",
			coins:     "-1",
			purchases: purchases("1000"),
			want:      "0.0000",
		},
		{
			name:      "non_numeric_coins",
			coins:     "x",
			purchases: purchases("1000"),
			want:      "0.0000",
		},
		{
			name:      "unparseable_purchase_counts_as_zero",
			coins:     "2",
			purchases: purchases("1000", "oops"),
			want:      "500.0000",
		},
		{
			name:      "empty_purchase_list",
			coins:     "2",
			purchases: nil,
			want:      "0.0000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AveragePrice(tt.coins, tt.purchases); got != tt.want {
				t.Errorf("AveragePrice(%q, ...) = %q, want %q", tt.coins, got, tt.want)
			}
		})
	}
}

func TestFundingProjection(t *testing.T) {
	// Reference carry: $1000 position, short pays -0.18%, long pays -1.17%,
	// 8h interval, 10x leverage.
	r := FundingProjection("1000", "10", "8", "-0.18", "-1.17")

	wantNet := decimal.RequireFromString("0.0099")
	if !r.NetRate.Equal(wantNet) {
		t.Errorf("NetRate = %s, want %s", r.NetRate, wantNet)
	}

	wantPeriod := decimal.RequireFromString("9.9")
	if !r.PeriodProfit.Equal(wantPeriod) {
		t.Errorf("PeriodProfit = %s, want %s", r.PeriodProfit, wantPeriod)
	}

	wantDaily := wantPeriod.Mul(decimal.NewFromInt(3)) // 24h / 8h
	if !r.DailyProfit.Equal(wantDaily) {
		t.Errorf("DailyProfit = %s, want %s", r.DailyProfit, wantDaily)
	}

	if want := wantDaily.Mul(decimal.NewFromInt(30)); !r.MonthlyProfit.Equal(want) {
		t.Errorf("MonthlyProfit = %s, want %s", r.MonthlyProfit, want)
	}

	wantAnnual := wantDaily.Mul(decimal.NewFromInt(365))
	if !r.AnnualProfit.Equal(wantAnnual) {
		t.Errorf("AnnualProfit = %s, want %s", r.AnnualProfit, wantAnnual)
	}

	wantMargin := decimal.NewFromInt(100)
	if !r.Margin.Equal(wantMargin) {
		t.Errorf("Margin = %s, want %s", r.Margin, wantMargin)
	}

	wantAPY := wantAnnual.Div(wantMargin).Mul(decimal.NewFromInt(100))
	if !r.APY.Equal(wantAPY) {
		t.Errorf("APY = %s, want %s", r.APY, wantAPY)
	}
}

func TestFundingProjection_Degradation(t *testing.T) {
	tests := []struct {
		name     string
		position string
		leverage string
		interval string
		short    string
		long     string
		check    func(t *testing.T, r FundingResult)
	}{
		{
			name:     "zero_interval_no_daily",
			position: "1000", leverage: "10", interval: "0", short: "0.01", long: "-0.01",
			check: func(t *testing.T, r FundingResult) {
				if !r.DailyProfit.IsZero() {
					t.Errorf("DailyProfit = %s, want 0", r.DailyProfit)
				}
				if r.PeriodProfit.IsZero() {
					t.Error("PeriodProfit should survive a zero interval")
				}
			},
		},
		{
			name:     "zero_leverage_no_margin_no_apy",
			position: "1000", leverage: "0", interval: "8", short: "0.01", long: "-0.01",
			check: func(t *testing.T, r FundingResult) {
				if !r.Margin.IsZero() || !r.APY.IsZero() {
					t.Errorf("Margin = %s, APY = %s, want both 0", r.Margin, r.APY)
				}
			},
		},
		{
			name:     "garbage_inputs_all_zero",
			position: "abc", leverage: "", interval: "x", short: "", long: "",
			check: func(t *testing.T, r FundingResult) {
				if !r.IsZero() {
					t.Errorf("result = %+v, want zero sentinel", r)
				}
			},
		},
		{
			name:     "negative_interval_no_daily",
			position: "1000", leverage: "10", interval: "-8", short: "0.05", long: "0",
			check: func(t *testing.T, r FundingResult) {
				if !r.DailyProfit.IsZero() {
					t.Errorf("DailyProfit = %s, want 0", r.DailyProfit)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, FundingProjection(tt.position, tt.leverage, tt.interval, tt.short, tt.long))
		})
	}
}
