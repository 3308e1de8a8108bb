package trace

import (
	"fmt"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
)

// Field names of an ITF bank state.
const (
	FieldBalances    = "balances"
	FieldInvestments = "investments"
	FieldNextID      = "next_id"
	FieldOwner       = "owner"
	FieldAmount      = "amount"
)

const mapPath = "[" + itf.TagMap + "]"

// DecodeBalances decodes a #map of owner strings to bigint balances.
// A repeated owner overwrites the earlier pair.
func DecodeBalances(v itf.Value) (map[string]int64, error) {
	pairs, err := itf.AsMap(v)
	if err != nil {
		return nil, decodeErr("", err)
	}
	out := make(map[string]int64, len(pairs))
	for i, p := range pairs {
		at := indexPath(mapPath, i)
		owner, err := itf.AsString(p.Key)
		if err != nil {
			return nil, decodeErr(at+"[0]", err)
		}
		amount, err := itf.AsInt64(p.Value)
		if err != nil {
			return nil, decodeErr(at+"[1]", err)
		}
		out[owner] = amount
	}
	return out, nil
}

// DecodeInvestments decodes a #map of bigint ids to {owner, amount}
// records. A repeated id overwrites the earlier pair.
func DecodeInvestments(v itf.Value) (map[int64]bank.Investment, error) {
	pairs, err := itf.AsMap(v)
	if err != nil {
		return nil, decodeErr("", err)
	}
	out := make(map[int64]bank.Investment, len(pairs))
	for i, p := range pairs {
		at := indexPath(mapPath, i)
		id, err := itf.AsInt64(p.Key)
		if err != nil {
			return nil, decodeErr(at+"[0]", err)
		}
		inv, err := decodeInvestment(p.Value)
		if err != nil {
			return nil, WithPath(at+"[1]", err)
		}
		out[id] = inv
	}
	return out, nil
}

func decodeInvestment(v itf.Value) (bank.Investment, error) {
	rec, err := itf.AsRecord(v)
	if err != nil {
		return bank.Investment{}, decodeErr("", err)
	}
	ownerVal, err := rec.Field(FieldOwner)
	if err != nil {
		return bank.Investment{}, decodeErr("", err)
	}
	owner, err := itf.AsString(ownerVal)
	if err != nil {
		return bank.Investment{}, decodeErr(FieldOwner, err)
	}
	amountVal, err := rec.Field(FieldAmount)
	if err != nil {
		return bank.Investment{}, decodeErr("", err)
	}
	amount, err := itf.AsInt64(amountVal)
	if err != nil {
		return bank.Investment{}, decodeErr(FieldAmount, err)
	}
	return bank.Investment{Owner: owner, Amount: amount}, nil
}

// DecodeState decodes a full bank state record. Every field is required;
// fields beyond the three known ones are ignored.
func DecodeState(v itf.Value) (*bank.State, error) {
	rec, err := itf.AsRecord(v)
	if err != nil {
		return nil, decodeErr("", err)
	}

	field := func(name string) (itf.Value, error) {
		fv, err := rec.Field(name)
		if err != nil {
			return nil, decodeErr("", err)
		}
		return fv, nil
	}

	bv, err := field(FieldBalances)
	if err != nil {
		return nil, err
	}
	balances, err := DecodeBalances(bv)
	if err != nil {
		return nil, WithPath(FieldBalances, err)
	}

	iv, err := field(FieldInvestments)
	if err != nil {
		return nil, err
	}
	investments, err := DecodeInvestments(iv)
	if err != nil {
		return nil, WithPath(FieldInvestments, err)
	}

	nv, err := field(FieldNextID)
	if err != nil {
		return nil, err
	}
	nextID, err := itf.AsInt64(nv)
	if err != nil {
		return nil, decodeErr(FieldNextID, err)
	}

	return &bank.State{
		Balances:    balances,
		Investments: investments,
		NextID:      nextID,
	}, nil
}

// EncodeState is the inverse of DecodeState. Map pairs are emitted in owner
// and id order so equal states encode identically.
func EncodeState(s *bank.State) itf.Value {
	balances := make(itf.Map, 0, len(s.Balances))
	for _, owner := range s.Owners() {
		balances = append(balances, itf.Pair{
			Key:   itf.String(owner),
			Value: itf.NewInt(s.Balances[owner]),
		})
	}

	investments := make(itf.Map, 0, len(s.Investments))
	for _, id := range s.InvestmentIDs() {
		inv := s.Investments[id]
		investments = append(investments, itf.Pair{
			Key: itf.NewInt(id),
			Value: itf.Record{
				FieldOwner:  itf.String(inv.Owner),
				FieldAmount: itf.NewInt(inv.Amount),
			},
		})
	}

	return itf.Record{
		FieldBalances:    balances,
		FieldInvestments: investments,
		FieldNextID:      itf.NewInt(s.NextID),
	}
}

// CanonicalState renders s as canonical ITF JSON.
func CanonicalState(s *bank.State) (string, error) {
	data, err := itf.MarshalCanonical(EncodeState(s))
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}
