package components

// ColumnType identifies the type of content in a column
type ColumnType int

const (
	ColumnTypeMonths ColumnType = iota
	ColumnTypeExpenses
	ColumnTypeRules
	ColumnTypeConflicts
	ColumnTypeEmpty
)
