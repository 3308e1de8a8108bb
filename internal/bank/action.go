package bank

// Action is the closed set of trace actions. ActionUnknown stands for any
// tag outside the set and is carried explicitly rather than as a string.
type Action int

const (
	ActionUnknown Action = iota
	ActionInit
	ActionDeposit
	ActionWithdraw
	ActionTransfer
	ActionBuyInvestment
	ActionSellInvestment
)

var actionTags = map[string]Action{
	"init":                   ActionInit,
	"deposit_action":         ActionDeposit,
	"withdraw_action":        ActionWithdraw,
	"transfer_action":        ActionTransfer,
	"buy_investment_action":  ActionBuyInvestment,
	"sell_investment_action": ActionSellInvestment,
}

// ParseAction maps a trace tag to its Action. Unrecognized tags give
// ActionUnknown.
func ParseAction(tag string) Action {
	if a, ok := actionTags[tag]; ok {
		return a
	}
	return ActionUnknown
}

// Tag returns the trace tag of a, or "" for ActionUnknown.
func (a Action) Tag() string {
	for tag, act := range actionTags {
		if act == a {
			return tag
		}
	}
	return ""
}

func (a Action) String() string {
	switch a {
	case ActionInit:
		return "init"
	case ActionDeposit:
		return "deposit"
	case ActionWithdraw:
		return "withdraw"
	case ActionTransfer:
		return "transfer"
	case ActionBuyInvestment:
		return "buy_investment"
	case ActionSellInvestment:
		return "sell_investment"
	default:
		return "unknown"
	}
}
