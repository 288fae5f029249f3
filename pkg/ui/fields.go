package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"

	calcApp "github.com/spreadpad/spreadpad/business/calc/app"
	calcDomain "github.com/spreadpad/spreadpad/business/calc/domain"
)

// fieldBinding connects one rendered text input to a field of the active
// instance. Getters and setters resolve the instance at call time so a
// binding survives slice reallocation inside the collection.
type fieldBinding struct {
	label string
	get   func(t *calcApp.Tabs) string
	set   func(t *calcApp.Tabs, v string)
}

func arbBinding(label string, get func(f *calcDomain.ArbFields) string, patch func(v string) calcApp.ArbPatch) fieldBinding {
	return fieldBinding{
		label: label,
		get: func(t *calcApp.Tabs) string {
			if a := t.Active(); a != nil && a.Arb != nil {
				return get(a.Arb)
			}
			return ""
		},
		set: func(t *calcApp.Tabs, v string) {
			p := patch(v)
			t.UpdateActive(calcApp.Patch{Arb: &p})
		},
	}
}

func fundBinding(label string, get func(f *calcDomain.FundFields) string, patch func(v string) calcApp.FundPatch) fieldBinding {
	return fieldBinding{
		label: label,
		get: func(t *calcApp.Tabs) string {
			if a := t.Active(); a != nil && a.Fund != nil {
				return get(a.Fund)
			}
			return ""
		},
		set: func(t *calcApp.Tabs, v string) {
			p := patch(v)
			t.UpdateActive(calcApp.Patch{Fund: &p})
		},
	}
}

func purchaseBinding(idx int) fieldBinding {
	return fieldBinding{
		label: "Buy " + strconv.Itoa(idx+1),
		get: func(t *calcApp.Tabs) string {
			a := t.Active()
			if a == nil || a.Arb == nil || idx >= len(a.Arb.Purchases) {
				return ""
			}
			return a.Arb.Purchases[idx].Value
		},
		set: func(t *calcApp.Tabs, v string) {
			a := t.Active()
			if a == nil || a.Arb == nil || idx >= len(a.Arb.Purchases) {
				return
			}
			rows := append([]calcDomain.PurchaseEntry(nil), a.Arb.Purchases...)
			rows[idx].Value = v
			t.UpdateActive(calcApp.Patch{Arb: &calcApp.ArbPatch{Purchases: &rows}})
		},
	}
}

// activeBindings builds the editable field list for the active tab. The
// average panel fields only exist while the panel is shown.
func (m *Model) activeBindings() []fieldBinding {
	inst := m.tabs.Active()
	if inst == nil {
		return nil
	}

	if inst.Kind == calcDomain.KindFunding {
		return []fieldBinding{
			fundBinding("Position $", func(f *calcDomain.FundFields) string { return f.PositionSize },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{PositionSize: &v} }),
			fundBinding("Leverage", func(f *calcDomain.FundFields) string { return f.Leverage },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{Leverage: &v} }),
			fundBinding("Interval h", func(f *calcDomain.FundFields) string { return f.IntervalHours },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{IntervalHours: &v} }),
			fundBinding("Short on", func(f *calcDomain.FundFields) string { return f.ExchangeShort },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{ExchangeShort: &v} }),
			fundBinding("Long on", func(f *calcDomain.FundFields) string { return f.ExchangeLong },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{ExchangeLong: &v} }),
			fundBinding("Short rate %", func(f *calcDomain.FundFields) string { return f.ShortRate },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{ShortRate: &v} }),
			fundBinding("Long rate %", func(f *calcDomain.FundFields) string { return f.LongRate },
				func(v string) calcApp.FundPatch { return calcApp.FundPatch{LongRate: &v} }),
		}
	}

	binds := []fieldBinding{
		arbBinding("Open A", func(f *calcDomain.ArbFields) string { return f.OpenA },
			func(v string) calcApp.ArbPatch { return calcApp.ArbPatch{OpenA: &v} }),
		arbBinding("Open B", func(f *calcDomain.ArbFields) string { return f.OpenB },
			func(v string) calcApp.ArbPatch { return calcApp.ArbPatch{OpenB: &v} }),
		arbBinding("Close A", func(f *calcDomain.ArbFields) string { return f.CloseA },
			func(v string) calcApp.ArbPatch { return calcApp.ArbPatch{CloseA: &v} }),
		arbBinding("Close B", func(f *calcDomain.ArbFields) string { return f.CloseB },
			func(v string) calcApp.ArbPatch { return calcApp.ArbPatch{CloseB: &v} }),
	}
	if inst.Arb != nil && inst.Arb.ShowAverage {
		binds = append(binds, arbBinding("Total coins", func(f *calcDomain.ArbFields) string { return f.TotalCoins },
			func(v string) calcApp.ArbPatch { return calcApp.ArbPatch{TotalCoins: &v} }))
		for i := range inst.Arb.Purchases {
			binds = append(binds, purchaseBinding(i))
		}
	}
	return binds
}

// rebuildInputs recreates the text inputs after any structural change to
// the active tab (switch, add/remove purchase, clear, toggle panel).
func (m *Model) rebuildInputs() {
	binds := m.activeBindings()
	if m.focus >= len(binds) {
		m.focus = 0
	}

	inputs := make([]textinput.Model, len(binds))
	for i, b := range binds {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 16
		ti.SetValue(b.get(m.tabs))
		if i == m.focus {
			ti.Focus()
		}
		inputs[i] = ti
	}
	m.binds = binds
	m.inputs = inputs
}

// setFocus moves field focus, wrapping around both ends.
func (m *Model) setFocus(idx int) {
	if len(m.inputs) == 0 {
		return
	}
	if idx < 0 {
		idx = len(m.inputs) - 1
	}
	if idx >= len(m.inputs) {
		idx = 0
	}
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}
