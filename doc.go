// Package sandbox provides an in-memory virtual-services marketplace for
// exercising agent integrations without real money or real provisioning.
//
// Sandbox is designed as a library. One Engine holds a simulated wallet and
// the three resource registries:
//
//   - SMS number rentals that receive a verification code a few seconds in
//   - eSIM data plans with simulated usage and paid top-ups
//   - Mobile proxies with simulated bandwidth and IP rotation
//
// # Quick Start
//
//	e := sandbox.New(sandbox.WithLogger(slog.Default()))
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
//	rental, err := e.RentNumber(ctx, "whatsapp")
//	if sandbox.IsInsufficientBalance(err) {
//	    // top up with e.Deposit
//	}
//
// # Time
//
// Nothing runs in the background. Deposits confirm, codes arrive, usage
// accrues and records expire when an operation next reads them, evaluated
// against the Engine's clock. Tests drive that clock with clock.Fake.
//
// # Money
//
// All balances and prices are integer cents. Fractional quantities (GB,
// months) are priced with Money.MulQuantity, which rounds once to the cent.
//
// # TypeID
//
// Records carry TypeIDs with a per-kind prefix:
//
//	sms_01h2xcejqtf2nbrexx3vqjhp41  // SMS rental
//	ord_01h2xcejqtf2nbrexx3vqjhp41  // eSIM order
//	prx_01h455vb4pex5vsknk084sn02q  // Proxy lease
//	inv_01h455vb4pex5vsknk084sn02q  // Deposit invoice
//	tx_01h455vb4pex5vsknk084sn02q   // Ledger transaction
package sandbox
