package platform

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderStatus string

const (
	StatusOpen     OrderStatus = "open"
	StatusClosed   OrderStatus = "closed"
	StatusCanceled OrderStatus = "canceled"
)

// Order is the collaborator's view of a submitted order. It is only ever
// re-read from the remote side, never mutated locally.
type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Side          Side
	Amount        Fixed
	Price         Fixed
	Filled        Fixed
	Remaining     Fixed
	Status        OrderStatus
	Time          int64
}

// Done reports whether the order is closed with nothing left to fill.
// Partially filled and canceled orders are not done.
func (o Order) Done() bool {
	return o.Status == StatusClosed && o.Remaining.IsZero()
}

type OrderRequest struct {
	Symbol        string
	Side          Side
	Amount        Fixed
	Price         Fixed
	PostOnly      bool
	ClientOrderID string
}
