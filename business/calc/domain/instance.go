// Package domain contains the calculator tab model: a tagged union of the
// arbitrage and funding variants plus the ordered tab collection.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates the calculator variant of an Instance.
type Kind string

const (
	KindArbitrage Kind = "arbitrage"
	KindFunding   Kind = "funding"
)

// Name prefixes for auto-numbered tabs.
const (
	ArbitrageNamePrefix = "C "
	FundingNamePrefix   = "FR "
)

// FundLogCap bounds the funding entry log; oldest entries are truncated.
const FundLogCap = 100

// PurchaseEntry is one row of the weighted-average purchase list.
// Value is kept as raw user text so partial input survives re-renders.
type PurchaseEntry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// NewPurchaseEntry creates an empty purchase row.
func NewPurchaseEntry() PurchaseEntry {
	return PurchaseEntry{ID: uuid.NewString()}
}

// ArbFields holds the arbitrage variant state. All numeric fields are raw
// strings; parsing happens only when a result is computed.
type ArbFields struct {
	OpenA       string          `json:"openA"`
	OpenB       string          `json:"openB"`
	CloseA      string          `json:"closeA"`
	CloseB      string          `json:"closeB"`
	TotalCoins  string          `json:"totalCoins"`
	Purchases   []PurchaseEntry `json:"purchases"`
	ShowAverage bool            `json:"showAverage"`
}

// DefaultArbFields returns the arbitrage content-field defaults.
// The purchase list is never empty.
func DefaultArbFields() *ArbFields {
	return &ArbFields{
		Purchases: []PurchaseEntry{NewPurchaseEntry()},
	}
}

// FundLogEntry is one realized funding period.
type FundLogEntry struct {
	At     time.Time       `json:"at"`
	Profit decimal.Decimal `json:"profit"`
	Rate   decimal.Decimal `json:"rate"`
}

// FundFields holds the funding variant state.
type FundFields struct {
	PositionSize  string         `json:"positionSize"`
	Leverage      string         `json:"leverage"`
	IntervalHours string         `json:"intervalHours"`
	ExchangeShort string         `json:"exchangeShort"`
	ExchangeLong  string         `json:"exchangeLong"`
	ShortRate     string         `json:"shortRate"`
	LongRate      string         `json:"longRate"`
	Log           []FundLogEntry `json:"log"`
}

// DefaultFundFields returns the funding content-field defaults.
func DefaultFundFields() *FundFields {
	return &FundFields{
		IntervalHours: "8",
		ExchangeShort: "Binance",
		ExchangeLong:  "Bybit",
	}
}

// AppendLog appends an entry, truncating the oldest beyond FundLogCap.
func (f *FundFields) AppendLog(entry FundLogEntry) {
	f.Log = append(f.Log, entry)
	if len(f.Log) > FundLogCap {
		f.Log = f.Log[len(f.Log)-FundLogCap:]
	}
}

// Instance is a single calculator tab. Exactly one variant pointer is
// non-nil; all access switches on Kind.
type Instance struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Kind Kind        `json:"kind"`
	Arb  *ArbFields  `json:"arb,omitempty"`
	Fund *FundFields `json:"fund,omitempty"`
}

// NewArbitrage creates an arbitrage instance with default fields.
func NewArbitrage(name string) Instance {
	return Instance{
		ID:   uuid.NewString(),
		Name: name,
		Kind: KindArbitrage,
		Arb:  DefaultArbFields(),
	}
}

// NewFunding creates a funding instance with default fields.
func NewFunding(name string) Instance {
	return Instance{
		ID:   uuid.NewString(),
		Name: name,
		Kind: KindFunding,
		Fund: DefaultFundFields(),
	}
}

// Normalize backfills fields missing from persisted data (schema evolution)
// against the variant's default template. Unknown kinds become arbitrage.
func (i *Instance) Normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	switch i.Kind {
	case KindFunding:
		if i.Fund == nil {
			i.Fund = DefaultFundFields()
		}
		defaults := DefaultFundFields()
		if i.Fund.IntervalHours == "" {
			i.Fund.IntervalHours = defaults.IntervalHours
		}
		if i.Fund.ExchangeShort == "" {
			i.Fund.ExchangeShort = defaults.ExchangeShort
		}
		if i.Fund.ExchangeLong == "" {
			i.Fund.ExchangeLong = defaults.ExchangeLong
		}
		if len(i.Fund.Log) > FundLogCap {
			i.Fund.Log = i.Fund.Log[len(i.Fund.Log)-FundLogCap:]
		}
		i.Arb = nil
	default:
		i.Kind = KindArbitrage
		if i.Arb == nil {
			i.Arb = DefaultArbFields()
		}
		if len(i.Arb.Purchases) == 0 {
			i.Arb.Purchases = []PurchaseEntry{NewPurchaseEntry()}
		}
		i.Fund = nil
	}
}

// ClearContent resets the content fields to variant defaults, preserving
// id, name and kind.
func (i *Instance) ClearContent() {
	switch i.Kind {
	case KindFunding:
		i.Fund = DefaultFundFields()
	default:
		i.Arb = DefaultArbFields()
	}
}

// Collection is the ordered tab set. Insertion order is tab order and
// ActiveID always resolves to a member unless the collection is empty.
type Collection struct {
	Instances []Instance `json:"instances"`
	ActiveID  string     `json:"activeId"`
}

// NewCollection creates a collection holding one default arbitrage tab.
func NewCollection() Collection {
	inst := NewArbitrage(ArbitrageNamePrefix + "1")
	return Collection{
		Instances: []Instance{inst},
		ActiveID:  inst.ID,
	}
}

// Active returns the active instance, or nil when the collection is empty.
func (c *Collection) Active() *Instance {
	return c.ByID(c.ActiveID)
}

// ByID returns the instance with the given id, or nil.
func (c *Collection) ByID(id string) *Instance {
	for idx := range c.Instances {
		if c.Instances[idx].ID == id {
			return &c.Instances[idx]
		}
	}
	return nil
}

// IndexOf returns the position of id in tab order, or -1.
func (c *Collection) IndexOf(id string) int {
	for idx := range c.Instances {
		if c.Instances[idx].ID == id {
			return idx
		}
	}
	return -1
}

// Normalize repairs invariants after deserialization: every instance is
// backfilled, an empty collection gains a default tab, and a dangling
// ActiveID is repointed at the first tab.
func (c *Collection) Normalize() {
	for idx := range c.Instances {
		c.Instances[idx].Normalize()
	}
	if len(c.Instances) == 0 {
		*c = NewCollection()
		return
	}
	if c.ByID(c.ActiveID) == nil {
		c.ActiveID = c.Instances[0].ID
	}
}
