package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"
)

var owners = []string{"alice", "bob", "carol"}

// randomMove applies one of the value-preserving operations with random
// arguments, including invalid ones, and returns the code.
func randomMove(rnd *rand.Rand, s *State) ErrorCode {
	amount := int64(rnd.Intn(80)) - 10
	switch rnd.Intn(3) {
	case 0:
		return Transfer(s, owners[rnd.Intn(len(owners))], owners[rnd.Intn(len(owners))], amount)
	case 1:
		return BuyInvestment(s, owners[rnd.Intn(len(owners))], amount)
	default:
		id := int64(rnd.Intn(int(s.NextID) + 2))
		return SellInvestment(s, owners[rnd.Intn(len(owners))], id)
	}
}

func TestProperty_ConservationAndAtomicity(t *testing.T) {
	rnd := rand.New(7)

	for run := 0; run < 50; run++ {
		s := stateWith(map[string]int64{"alice": 100, "bob": 50, "carol": 0})
		total := s.Total()

		for step := 0; step < 200; step++ {
			before := s.Clone()
			code := randomMove(rnd, s)

			require.Equal(t, total, s.Total(), "run %d step %d", run, step)
			if code != OK {
				require.True(t, before.Equal(s), "rejected move changed state: %s", code)
			}
			for owner, b := range s.Balances {
				require.GreaterOrEqual(t, b, int64(0), "negative balance for %s", owner)
			}
		}
	}
}

func TestProperty_InvestmentIDsStrictlyIncrease(t *testing.T) {
	rnd := rand.New(11)
	s := stateWith(map[string]int64{"alice": 1000, "bob": 1000})

	seen := make(map[int64]bool)
	last := int64(-1)
	for i := 0; i < 500; i++ {
		next := s.NextID
		if rnd.Intn(2) == 0 {
			if BuyInvestment(s, owners[rnd.Intn(2)], int64(rnd.Intn(20)+1)) == OK {
				assert.Greater(t, next, last)
				assert.False(t, seen[next], "id %d reused", next)
				seen[next] = true
				last = next
				assert.Equal(t, next+1, s.NextID)
			}
		} else {
			SellInvestment(s, owners[rnd.Intn(2)], int64(rnd.Intn(int(s.NextID)+1)))
			assert.Equal(t, next, s.NextID, "sell must not move NextID")
		}
		for id := range s.Investments {
			assert.Less(t, id, s.NextID)
		}
	}
}

func TestProperty_DepositWithdrawDelta(t *testing.T) {
	rnd := rand.New(3)
	s := stateWith(map[string]int64{"alice": 100})

	for i := 0; i < 300; i++ {
		owner := owners[rnd.Intn(len(owners))]
		amount := int64(rnd.Intn(60)) - 5
		before := s.Clone()

		if rnd.Intn(2) == 0 {
			code := Deposit(s, owner, amount)
			if amount > 0 {
				require.Equal(t, OK, code)
				assert.Equal(t, before.Balances[owner]+amount, s.Balances[owner])
				assert.Equal(t, before.Total()+amount, s.Total())
			} else {
				require.Equal(t, ErrCodeInvalidAmount, code)
				assert.True(t, before.Equal(s))
			}
			continue
		}

		code := Withdraw(s, owner, amount)
		switch {
		case amount <= 0:
			require.Equal(t, ErrCodeInvalidAmount, code)
			assert.True(t, before.Equal(s))
		case amount > before.Balances[owner]:
			require.Equal(t, ErrCodeInsufficientBalance, code)
			assert.True(t, before.Equal(s))
		default:
			require.Equal(t, OK, code)
			assert.Equal(t, before.Balances[owner]-amount, s.Balances[owner])
			assert.Equal(t, before.Total()-amount, s.Total())
		}
	}
}
