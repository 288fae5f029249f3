// Package app contains application services for the calculator context.
package app

import (
	"strconv"
	"strings"

	"github.com/spreadpad/spreadpad/business/calc/domain"
)

// ArbPatch is a partial update of arbitrage fields. Nil members are
// untouched; shallow merge semantics.
type ArbPatch struct {
	OpenA       *string
	OpenB       *string
	CloseA      *string
	CloseB      *string
	TotalCoins  *string
	ShowAverage *bool
	Purchases   *[]domain.PurchaseEntry
}

// FundPatch is a partial update of funding fields.
type FundPatch struct {
	PositionSize  *string
	Leverage      *string
	IntervalHours *string
	ExchangeShort *string
	ExchangeLong  *string
	ShortRate     *string
	LongRate      *string
}

// Patch is a partial update applied to the active instance only.
type Patch struct {
	Name *string
	Arb  *ArbPatch
	Fund *FundPatch
}

// Tabs is the tab lifecycle manager. It owns the mutation rules of the
// collection; callers read state through Collection().
type Tabs struct {
	col *domain.Collection
}

// NewTabs wraps an existing collection. The collection is normalized so
// the manager never starts on a broken invariant.
func NewTabs(col *domain.Collection) *Tabs {
	col.Normalize()
	return &Tabs{col: col}
}

// Collection exposes the managed collection.
func (t *Tabs) Collection() *domain.Collection {
	return t.col
}

// Active returns the active instance. The collection invariant guarantees
// a non-nil result.
func (t *Tabs) Active() *domain.Instance {
	return t.col.Active()
}

// AddArbitrage appends a new arbitrage tab with the lowest free number
// and returns its id. The caller decides whether to activate it.
func (t *Tabs) AddArbitrage() string {
	inst := domain.NewArbitrage(t.nextName(domain.KindArbitrage))
	t.col.Instances = append(t.col.Instances, inst)
	return inst.ID
}

// AddFunding appends a new funding tab and returns its id.
func (t *Tabs) AddFunding() string {
	inst := domain.NewFunding(t.nextName(domain.KindFunding))
	t.col.Instances = append(t.col.Instances, inst)
	return inst.ID
}

// nextName assigns "C {n}" / "FR {n}" where n is the smallest positive
// integer not used by a same-kind tab. Gaps left by deletions are filled
// before extending past the maximum.
func (t *Tabs) nextName(kind domain.Kind) string {
	prefix := domain.ArbitrageNamePrefix
	if kind == domain.KindFunding {
		prefix = domain.FundingNamePrefix
	}

	used := make(map[int]bool)
	for _, inst := range t.col.Instances {
		if inst.Kind != kind {
			continue
		}
		suffix := strings.TrimPrefix(inst.Name, prefix)
		if suffix == inst.Name {
			continue // custom name, does not occupy a number
		}
		if n, err := strconv.Atoi(strings.TrimSpace(suffix)); err == nil && n > 0 {
			used[n] = true
		}
	}

	n := 1
	for used[n] {
		n++
	}
	return prefix + strconv.Itoa(n)
}

// Activate makes id the active tab. Unknown ids are ignored.
func (t *Tabs) Activate(id string) bool {
	if t.col.ByID(id) == nil {
		return false
	}
	t.col.ActiveID = id
	return true
}

// Remove deletes a tab. Removing the last tab synthesizes a fresh default
// arbitrage tab so the collection is never empty. When the active tab is
// removed, activation falls back to the preceding tab, or the first.
func (t *Tabs) Remove(id string) {
	idx := t.col.IndexOf(id)
	if idx < 0 {
		return
	}

	if len(t.col.Instances) == 1 {
		*t.col = domain.NewCollection()
		return
	}

	wasActive := t.col.ActiveID == id
	t.col.Instances = append(t.col.Instances[:idx], t.col.Instances[idx+1:]...)

	if wasActive {
		fallback := idx - 1
		if fallback < 0 {
			fallback = 0
		}
		t.col.ActiveID = t.col.Instances[fallback].ID
	}
}

// Rename replaces the tab's display name. Names need not be unique.
func (t *Tabs) Rename(id, name string) {
	if inst := t.col.ByID(id); inst != nil {
		inst.Name = name
	}
}

// UpdateActive merges a partial patch into the active instance only.
// Fields not named in the patch are untouched; patches for the wrong
// variant are ignored.
func (t *Tabs) UpdateActive(patch Patch) {
	inst := t.col.Active()
	if inst == nil {
		return
	}

	if patch.Name != nil {
		inst.Name = *patch.Name
	}

	if patch.Arb != nil && inst.Kind == domain.KindArbitrage && inst.Arb != nil {
		applyArbPatch(inst.Arb, patch.Arb)
	}
	if patch.Fund != nil && inst.Kind == domain.KindFunding && inst.Fund != nil {
		applyFundPatch(inst.Fund, patch.Fund)
	}
}

func applyArbPatch(f *domain.ArbFields, p *ArbPatch) {
	if p.OpenA != nil {
		f.OpenA = *p.OpenA
	}
	if p.OpenB != nil {
		f.OpenB = *p.OpenB
	}
	if p.CloseA != nil {
		f.CloseA = *p.CloseA
	}
	if p.CloseB != nil {
		f.CloseB = *p.CloseB
	}
	if p.TotalCoins != nil {
		f.TotalCoins = *p.TotalCoins
	}
	if p.ShowAverage != nil {
		f.ShowAverage = *p.ShowAverage
	}
	if p.Purchases != nil {
		f.Purchases = *p.Purchases
		if len(f.Purchases) == 0 {
			f.Purchases = []domain.PurchaseEntry{domain.NewPurchaseEntry()}
		}
	}
}

func applyFundPatch(f *domain.FundFields, p *FundPatch) {
	if p.PositionSize != nil {
		f.PositionSize = *p.PositionSize
	}
	if p.Leverage != nil {
		f.Leverage = *p.Leverage
	}
	if p.IntervalHours != nil {
		f.IntervalHours = *p.IntervalHours
	}
	if p.ExchangeShort != nil {
		f.ExchangeShort = *p.ExchangeShort
	}
	if p.ExchangeLong != nil {
		f.ExchangeLong = *p.ExchangeLong
	}
	if p.ShortRate != nil {
		f.ShortRate = *p.ShortRate
	}
	if p.LongRate != nil {
		f.LongRate = *p.LongRate
	}
}

// ClearActive resets the active tab's content fields to variant defaults,
// preserving id, name and kind.
func (t *Tabs) ClearActive() {
	if inst := t.col.Active(); inst != nil {
		inst.ClearContent()
	}
}

// AddPurchase appends an empty purchase row to the active arbitrage tab.
func (t *Tabs) AddPurchase() {
	inst := t.col.Active()
	if inst == nil || inst.Kind != domain.KindArbitrage || inst.Arb == nil {
		return
	}
	inst.Arb.Purchases = append(inst.Arb.Purchases, domain.NewPurchaseEntry())
}

// RemovePurchase deletes a purchase row from the active arbitrage tab.
// Removal is a no-op when exactly one entry remains.
func (t *Tabs) RemovePurchase(purchaseID string) {
	inst := t.col.Active()
	if inst == nil || inst.Kind != domain.KindArbitrage || inst.Arb == nil {
		return
	}
	if len(inst.Arb.Purchases) <= 1 {
		return
	}
	for i, p := range inst.Arb.Purchases {
		if p.ID == purchaseID {
			inst.Arb.Purchases = append(inst.Arb.Purchases[:i], inst.Arb.Purchases[i+1:]...)
			return
		}
	}
}
