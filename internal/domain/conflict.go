package domain

// Resolution is the user's decision for a suspected duplicate pair
type Resolution string

const (
	KeepLeft  Resolution = "keep_left"
	KeepRight Resolution = "keep_right"
	KeepBoth  Resolution = "keep_both"
)

// Conflict pairs two expenses the server suspects are the same charge,
// typically one from a bank notification and one from a store receipt.
type Conflict struct {
	ID     string
	Reason string // Server explanation, e.g. "same amount within 2 days"
	Left   Expense
	Right  Expense
}
