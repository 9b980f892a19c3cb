package sandbox

import (
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// Re-export common types for convenience so users don't have to import
// the types, wallet and order packages.

// Money is re-exported from types package.
type Money = types.Money

// Currency is re-exported from wallet package.
type Currency = wallet.Currency

// ListOpts is re-exported from order package.
type ListOpts = order.ListOpts

// Re-export Money constructors
var (
	USD      = types.USD
	FromUSD  = func(dollars float64) (Money, error) { return types.FromMajor(dollars, "usd") }
	ZeroUSD  = types.Zero("usd")
	SumMoney = types.Sum
)

// Re-export deposit currencies
const (
	BTC = wallet.CurrencyBTC
	ETH = wallet.CurrencyETH
	SOL = wallet.CurrencySOL
)
