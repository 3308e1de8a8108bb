package bank

// Deposit credits amount to owner, creating the balance if needed.
func Deposit(s *State, owner string, amount int64) ErrorCode {
	if amount <= 0 {
		return ErrCodeInvalidAmount
	}
	s.Balances[owner] += amount
	return OK
}

// Withdraw debits amount from owner. A missing balance counts as zero, so
// withdrawing from an unknown owner is an insufficient balance.
func Withdraw(s *State, owner string, amount int64) ErrorCode {
	if code := checkDebit(s, owner, amount); code != OK {
		return code
	}
	s.Balances[owner] -= amount
	return OK
}

// Transfer is Withdraw from sender then Deposit to receiver. Both legs are
// validated before either is applied, so a rejected transfer changes
// nothing and reports the withdraw leg's code.
func Transfer(s *State, sender, receiver string, amount int64) ErrorCode {
	if code := checkDebit(s, sender, amount); code != OK {
		return code
	}
	s.Balances[sender] -= amount
	s.Balances[receiver] += amount
	return OK
}

// BuyInvestment moves amount from buyer's balance into a new investment
// stored under NextID, then advances NextID.
func BuyInvestment(s *State, buyer string, amount int64) ErrorCode {
	if code := checkDebit(s, buyer, amount); code != OK {
		return code
	}
	s.Balances[buyer] -= amount
	s.Investments[s.NextID] = Investment{Owner: buyer, Amount: amount}
	s.NextID++
	return OK
}

// SellInvestment returns investment id to its owner's balance and deletes
// it. The id is not reused: NextID is left alone.
func SellInvestment(s *State, seller string, id int64) ErrorCode {
	inv, ok := s.Investments[id]
	if !ok {
		return ErrCodeInvestmentNotFound
	}
	if inv.Owner != seller {
		return ErrCodeNotOwner
	}
	s.Balances[seller] += inv.Amount
	delete(s.Investments, id)
	return OK
}

func checkDebit(s *State, owner string, amount int64) ErrorCode {
	if amount <= 0 {
		return ErrCodeInvalidAmount
	}
	if s.Balances[owner] < amount {
		return ErrCodeInsufficientBalance
	}
	return OK
}
