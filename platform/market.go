package platform

type Trade struct {
	TradeID      int64
	Time         int64
	Symbol       string
	Price        Fixed
	Quantity     Fixed
	IsBuyerMaker bool
}

type Ticker struct {
	Symbol string
	Time   int64
	Bid    Fixed
	Ask    Fixed
}

type BalanceAmount struct {
	Free  Fixed
	Used  Fixed
	Total Fixed
}

// Balances is a snapshot keyed by asset code.
type Balances map[string]BalanceAmount
