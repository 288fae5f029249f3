package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestHistory_CapEnforced(t *testing.T) {
	var h History
	for i := 0; i < HistoryCap*3; i++ {
		h.Append(NewHistoryEntry(KindArbitrage,
			map[string]string{"a": "1", "b": "2"},
			fmt.Sprintf("%d.00", i), "C 1"))
	}

	if len(h.Entries) != HistoryCap {
		t.Fatalf("len = %d, want %d", len(h.Entries), HistoryCap)
	}
	// Oldest entries were truncated; the newest survives at the end.
	if got := h.Entries[len(h.Entries)-1].Result; got != fmt.Sprintf("%d.00", HistoryCap*3-1) {
		t.Errorf("newest entry = %q, want the last appended", got)
	}
}

func TestFundLog_CapEnforced(t *testing.T) {
	f := DefaultFundFields()
	for i := 0; i < FundLogCap+25; i++ {
		f.AppendLog(FundLogEntry{
			At:     time.Now(),
			Profit: decimal.NewFromInt(int64(i)),
			Rate:   decimal.RequireFromString("0.0099"),
		})
	}

	if len(f.Log) != FundLogCap {
		t.Fatalf("len = %d, want %d", len(f.Log), FundLogCap)
	}
	if got := f.Log[len(f.Log)-1].Profit; !got.Equal(decimal.NewFromInt(int64(FundLogCap + 24))) {
		t.Errorf("newest log profit = %s, want the last appended", got)
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		result string
		inputs map[string]string
		want   bool
	}{
		{
			name:   "real_result",
			result: "10.00",
			inputs: map[string]string{"a": "110", "b": "100"},
			want:   true,
		},
		{
			name:   "zero_percent_sentinel",
			result: ZeroPercent,
			inputs: map[string]string{"a": "100", "b": "100"},
			want:   false,
		},
		{
			name:   "zero_price_sentinel",
			result: ZeroPrice,
			inputs: map[string]string{"coins": "0"},
			want:   false,
		},
		{
			name:   "empty_input_field",
			result: "5.00",
			inputs: map[string]string{"a": "", "b": "100"},
			want:   false,
		},
		{
			name:   "zero_input_field",
			result: "5.00",
			inputs: map[string]string{"a": "0", "b": "100"},
			want:   false,
		},
		{
			name:   "no_inputs",
			result: "5.00",
			inputs: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.result, tt.inputs); got != tt.want {
				t.Errorf("Eligible(%q, %v) = %v, want %v", tt.result, tt.inputs, got, tt.want)
			}
		})
	}
}

func TestInstance_Normalize(t *testing.T) {
	t.Run("missing_variant_backfilled", func(t *testing.T) {
		inst := Instance{ID: "x", Name: "C 1", Kind: KindArbitrage}
		inst.Normalize()
		if inst.Arb == nil {
			t.Fatal("Arb fields not backfilled")
		}
		if len(inst.Arb.Purchases) == 0 {
			t.Error("purchase list must never be empty")
		}
	})

	t.Run("unknown_kind_becomes_arbitrage", func(t *testing.T) {
		inst := Instance{ID: "x", Name: "?", Kind: Kind("mystery")}
		inst.Normalize()
		if inst.Kind != KindArbitrage {
			t.Errorf("Kind = %s, want %s", inst.Kind, KindArbitrage)
		}
	})

	t.Run("funding_defaults_backfilled", func(t *testing.T) {
		inst := Instance{ID: "x", Name: "FR 1", Kind: KindFunding, Fund: &FundFields{}}
		inst.Normalize()
		if inst.Fund.IntervalHours != "8" {
			t.Errorf("IntervalHours = %q, want backfilled default", inst.Fund.IntervalHours)
		}
	})
}

func TestCollection_Normalize(t *testing.T) {
	t.Run("empty_collection_gains_default_tab", func(t *testing.T) {
		var c Collection
		c.Normalize()
		if len(c.Instances) != 1 {
			t.Fatalf("len = %d, want 1", len(c.Instances))
		}
		if c.Instances[0].Kind != KindArbitrage {
			t.Errorf("Kind = %s, want arbitrage", c.Instances[0].Kind)
		}
		if c.ActiveID != c.Instances[0].ID {
			t.Error("ActiveID must point at the synthesized tab")
		}
	})

	t.Run("dangling_active_repointed", func(t *testing.T) {
		c := NewCollection()
		c.ActiveID = "gone"
		c.Normalize()
		if c.ActiveID != c.Instances[0].ID {
			t.Error("ActiveID not repointed at first tab")
		}
	})
}
