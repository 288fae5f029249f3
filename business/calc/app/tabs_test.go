package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadpad/spreadpad/business/calc/domain"
)

func newManager(t *testing.T) *Tabs {
	t.Helper()
	col := domain.NewCollection()
	return NewTabs(&col)
}

func names(tabs *Tabs) []string {
	out := make([]string, 0, len(tabs.Collection().Instances))
	for _, inst := range tabs.Collection().Instances {
		out = append(out, inst.Name)
	}
	return out
}

func TestTabs_NumberingFillsGaps(t *testing.T) {
	tabs := newManager(t)

	// Fresh collection starts with C 1; grow to C 1..C 3.
	tabs.AddArbitrage()
	tabs.AddArbitrage()
	require.Equal(t, []string{"C 1", "C 2", "C 3"}, names(tabs))

	var c2 string
	for _, inst := range tabs.Collection().Instances {
		if inst.Name == "C 2" {
			c2 = inst.ID
		}
	}
	tabs.Remove(c2)

	// The freed number is reused before extending past the maximum.
	tabs.AddArbitrage()
	assert.Equal(t, []string{"C 1", "C 3", "C 2"}, names(tabs))
}

func TestTabs_NumberingPerKind(t *testing.T) {
	tabs := newManager(t)

	id := tabs.AddFunding()
	assert.Equal(t, []string{"C 1", "FR 1"}, names(tabs))

	// Funding numbering is independent of arbitrage numbering.
	tabs.AddFunding()
	assert.Equal(t, []string{"C 1", "FR 1", "FR 2"}, names(tabs))

	inst := tabs.Collection().ByID(id)
	require.NotNil(t, inst)
	assert.Equal(t, domain.KindFunding, inst.Kind)
	assert.NotNil(t, inst.Fund)
}

func TestTabs_RenamedTabFreesItsNumber(t *testing.T) {
	tabs := newManager(t)
	tabs.Rename(tabs.Active().ID, "BTC spread")

	// "C 1" is no longer taken, so the next tab claims it.
	tabs.AddArbitrage()
	assert.Equal(t, []string{"BTC spread", "C 1"}, names(tabs))
}

func TestTabs_RemoveLastSynthesizesDefault(t *testing.T) {
	tabs := newManager(t)
	old := tabs.Active().ID
	tabs.Remove(old)

	require.Len(t, tabs.Collection().Instances, 1)
	fresh := tabs.Active()
	require.NotNil(t, fresh)
	assert.NotEqual(t, old, fresh.ID)
	assert.Equal(t, domain.KindArbitrage, fresh.Kind)
	assert.Equal(t, "C 1", fresh.Name)
}

func TestTabs_RemoveActiveActivatesPreceding(t *testing.T) {
	tabs := newManager(t)
	second := tabs.AddArbitrage()
	third := tabs.AddArbitrage()

	require.True(t, tabs.Activate(third))
	tabs.Remove(third)
	assert.Equal(t, second, tabs.Collection().ActiveID)

	// Removing the first while active falls back to the new first.
	first := tabs.Collection().Instances[0].ID
	require.True(t, tabs.Activate(first))
	tabs.Remove(first)
	assert.Equal(t, second, tabs.Collection().ActiveID)
}

func TestTabs_RemoveInactiveKeepsActive(t *testing.T) {
	tabs := newManager(t)
	second := tabs.AddArbitrage()
	active := tabs.Collection().ActiveID

	tabs.Remove(second)
	assert.Equal(t, active, tabs.Collection().ActiveID)
}

func TestTabs_ActivateUnknownIgnored(t *testing.T) {
	tabs := newManager(t)
	active := tabs.Collection().ActiveID

	assert.False(t, tabs.Activate("nope"))
	assert.Equal(t, active, tabs.Collection().ActiveID)
}

func TestTabs_UpdateActiveShallowMerge(t *testing.T) {
	tabs := newManager(t)

	open := "110.5"
	tabs.UpdateActive(Patch{Arb: &ArbPatch{OpenA: &open}})

	arb := tabs.Active().Arb
	require.NotNil(t, arb)
	assert.Equal(t, "110.5", arb.OpenA)
	assert.Equal(t, "", arb.OpenB, "untouched fields keep their value")

	// A funding patch against an arbitrage tab is ignored.
	rate := "-0.18"
	tabs.UpdateActive(Patch{Fund: &FundPatch{ShortRate: &rate}})
	assert.Nil(t, tabs.Active().Fund)
}

func TestTabs_UpdateActiveOnlyTouchesActive(t *testing.T) {
	tabs := newManager(t)
	second := tabs.AddArbitrage()

	open := "42"
	tabs.UpdateActive(Patch{Arb: &ArbPatch{OpenA: &open}})

	other := tabs.Collection().ByID(second)
	require.NotNil(t, other)
	assert.Equal(t, "", other.Arb.OpenA)
}

func TestTabs_ClearActiveKeepsIdentity(t *testing.T) {
	tabs := newManager(t)
	inst := tabs.Active()
	id, name := inst.ID, inst.Name

	open := "100"
	tabs.UpdateActive(Patch{Arb: &ArbPatch{OpenA: &open}})
	tabs.AddPurchase()
	tabs.ClearActive()

	inst = tabs.Active()
	assert.Equal(t, id, inst.ID)
	assert.Equal(t, name, inst.Name)
	assert.Equal(t, "", inst.Arb.OpenA)
	assert.Len(t, inst.Arb.Purchases, 1)
}

func TestTabs_PurchaseRows(t *testing.T) {
	tabs := newManager(t)

	tabs.AddPurchase()
	tabs.AddPurchase()
	require.Len(t, tabs.Active().Arb.Purchases, 3)

	tabs.RemovePurchase(tabs.Active().Arb.Purchases[1].ID)
	require.Len(t, tabs.Active().Arb.Purchases, 2)

	// The final row can never be removed.
	tabs.RemovePurchase(tabs.Active().Arb.Purchases[0].ID)
	tabs.RemovePurchase(tabs.Active().Arb.Purchases[0].ID)
	assert.Len(t, tabs.Active().Arb.Purchases, 1)
}
