package audithook

// Action constants for audit events.
const (
	// Wallet actions
	ActionTransactionRecorded = "transaction.recorded"
	ActionDepositCreated      = "deposit.created"
	ActionDepositCompleted    = "deposit.completed"

	// Order actions
	ActionOrderCreated     = "order.created"
	ActionOrderExpired     = "order.expired"
	ActionPurchaseRejected = "purchase.rejected"

	// Resource actions
	ActionRentalCanceled   = "rental.canceled"
	ActionMessageDelivered = "message.delivered"
	ActionESIMToppedUp     = "esim.topped_up"
	ActionProxyRotated     = "proxy.rotated"
)

// Resource constants for audit events.
const (
	ResourceTransaction = "transaction"
	ResourceDeposit     = "deposit"
	ResourceOrder       = "order"
	ResourceRental      = "rental"
	ResourceESIM        = "esim"
	ResourceProxy       = "proxy"
)

// Category constants for audit events.
const (
	CategoryWallet   = "wallet"
	CategoryPayment  = "payment"
	CategoryOrder    = "order"
	CategoryResource = "resource"
)

// Severity levels for audit events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
