package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/xraph/sandbox/format"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

type noArgs struct{}

type depositArgs struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (t *Toolbox) getBalance(ctx context.Context, _ noArgs) (string, error) {
	report, err := t.engine.Balance(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Balance: %s\n", report.Balance)

	if len(report.Pending) > 0 {
		fmt.Fprintf(&b, "\nPending deposits: %d\n", len(report.Pending))
		for _, d := range report.Pending {
			fmt.Fprintf(&b, "  - %s %s (auto-confirms in ~5s)\n", d.Amount, d.Currency)
		}
	}

	if len(report.Recent) == 0 {
		b.WriteString("\nNo transactions yet.\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "\nLast %d transactions:\n", len(report.Recent))
	for _, tx := range report.Recent {
		sign := "+"
		if tx.Amount.IsNegative() {
			sign = "-"
		}
		fmt.Fprintf(&b, "  %s  %s%s  %s\n", format.Timestamp(tx.CreatedAt), sign, tx.Amount.Abs(), tx.Description)
	}
	return b.String(), nil
}

func (t *Toolbox) deposit(ctx context.Context, args depositArgs) (string, error) {
	amount, err := types.FromMajor(args.Amount, "usd")
	if err != nil {
		return "", fail("Invalid deposit amount: %v", args.Amount)
	}
	d, err := t.engine.Deposit(ctx, amount, wallet.Currency(args.Currency))
	if err != nil {
		return "", err
	}

	return lines(
		"Deposit created!",
		"",
		"  Amount:   "+d.Amount.String(),
		"  Currency: "+string(d.Currency),
		"  Invoice:  "+d.InvoiceID.String(),
		"  Pay URL:  "+d.PayURL,
		"",
		"This is a sandbox deposit. It will auto-confirm in ~5 seconds.",
		"Call get_balance after a few seconds to see the updated balance.",
	), nil
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}
