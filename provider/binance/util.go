package binance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// Error codes from the Binance REST API documentation.
const (
	codeUnknown         = -1000
	codeDisconnected    = -1001
	codeTooManyRequests = -1003
	codeUnexpectedResp  = -1006
	codeTimeout         = -1007
	codeTooManyOrders   = -1015
	codeOrderRejected   = -2010
	codeCancelRejected  = -2011
	codeNoSuchOrder     = -2013
)

// toSymbol turns "ETH/BTC" into Binance's "ETHBTC".
func toSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

func toSide(side platform.Side) binance.SideType {
	if side == platform.SideSell {
		return binance.SideTypeSell
	}
	return binance.SideTypeBuy
}

func fromSide(side binance.SideType) platform.Side {
	if side == binance.SideTypeSell {
		return platform.SideSell
	}
	return platform.SideBuy
}

func fromStatus(status binance.OrderStatusType) platform.OrderStatus {
	switch status {
	case binance.OrderStatusTypeNew, binance.OrderStatusTypePartiallyFilled, binance.OrderStatusTypePendingCancel:
		return platform.StatusOpen
	case binance.OrderStatusTypeFilled:
		return platform.StatusClosed
	default:
		return platform.StatusCanceled
	}
}

type orderFields struct {
	OrderID          int64
	ClientOrderID    string
	Side             binance.SideType
	Price            string
	OrigQuantity     string
	ExecutedQuantity string
	Status           binance.OrderStatusType
	Time             int64
}

func makeOrder(symbol string, f orderFields) platform.Order {
	amount := fixed.NewS(f.OrigQuantity)
	filled := fixed.NewS(f.ExecutedQuantity)

	return platform.Order{
		ID:            strconv.FormatInt(f.OrderID, 10),
		ClientOrderID: f.ClientOrderID,
		Symbol:        symbol,
		Side:          fromSide(f.Side),
		Amount:        amount,
		Price:         fixed.NewS(f.Price),
		Filled:        filled,
		Remaining:     amount.Sub(filled),
		Status:        fromStatus(f.Status),
		Time:          f.Time,
	}
}

func isDuplicate(err error) bool {
	var apiErr *common.APIError
	return errors.As(err, &apiErr) &&
		apiErr.Code == codeOrderRejected &&
		strings.Contains(apiErr.Message, "Duplicate order")
}

// wrapErr maps API error codes onto the platform sentinels so callers can
// tell transient failures from rejected requests.
func wrapErr(op string, err error) error {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("binance: %s: %w", op, err)
	}

	var kind error
	switch apiErr.Code {
	case codeTooManyRequests, codeTooManyOrders:
		kind = platform.ErrRateLimited
	case 0, codeUnknown, codeDisconnected, codeUnexpectedResp, codeTimeout:
		// Code 0 means the error body did not parse, which is what the
		// gateway returns on 5xx.
		kind = platform.ErrUnavailable
	case codeNoSuchOrder:
		kind = platform.ErrOrderNotFound
	case codeCancelRejected:
		if strings.Contains(apiErr.Message, "Unknown order") {
			kind = platform.ErrOrderNotFound
		}
	case codeOrderRejected:
		if strings.Contains(apiErr.Message, "immediately match") {
			kind = platform.ErrWouldTake
		}
	}

	if kind == nil {
		return fmt.Errorf("binance: %s: %w", op, err)
	}
	return fmt.Errorf("binance: %s: %w: %w", op, kind, err)
}
