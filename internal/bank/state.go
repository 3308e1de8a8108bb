package bank

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Investment is an amount locked by its owner until sold.
type Investment struct {
	Owner  string `json:"owner"`
	Amount int64  `json:"amount"`
}

// State is the full ledger. It is owned by one trace replay at a time and
// mutated in place by the operations.
type State struct {
	Balances    map[string]int64     `json:"balances"`
	Investments map[int64]Investment `json:"investments"`
	NextID      int64                `json:"next_id"`
}

// NewState returns an empty ledger with NextID 0.
func NewState() *State {
	return &State{
		Balances:    make(map[string]int64),
		Investments: make(map[int64]Investment),
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{
		Balances:    maps.Clone(s.Balances),
		Investments: maps.Clone(s.Investments),
		NextID:      s.NextID,
	}
	if c.Balances == nil {
		c.Balances = make(map[string]int64)
	}
	if c.Investments == nil {
		c.Investments = make(map[int64]Investment)
	}
	return c
}

// Equal reports structural equality. A nil map equals an empty one.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.NextID == o.NextID &&
		maps.Equal(s.Balances, o.Balances) &&
		maps.Equal(s.Investments, o.Investments)
}

// Total is the value held in the ledger: every balance plus every
// investment amount.
func (s *State) Total() int64 {
	var total int64
	for _, b := range s.Balances {
		total += b
	}
	for _, inv := range s.Investments {
		total += inv.Amount
	}
	return total
}

// Owners returns the balance owners in sorted order.
func (s *State) Owners() []string {
	return slices.Sorted(maps.Keys(s.Balances))
}

// InvestmentIDs returns the investment ids in ascending order.
func (s *State) InvestmentIDs() []int64 {
	return slices.Sorted(maps.Keys(s.Investments))
}

// String renders s in owner and id order:
//
//	Balances: [{alice: 60}], Investments: [{ID: 0, Owner: alice, Amount: 40}], Next ID: 1
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("Balances: [")
	for i, owner := range s.Owners() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{%s: %d}", owner, s.Balances[owner])
	}
	b.WriteString("], Investments: [")
	for i, id := range s.InvestmentIDs() {
		if i > 0 {
			b.WriteString(", ")
		}
		inv := s.Investments[id]
		fmt.Fprintf(&b, "{ID: %d, Owner: %s, Amount: %d}", id, inv.Owner, inv.Amount)
	}
	fmt.Fprintf(&b, "], Next ID: %d", s.NextID)
	return b.String()
}
