// Package domain holds the inventory record model and its validation rules.
package domain

import "fmt"

// Condition is the physical state of an inventory item.
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionOpenBox Condition = "OPENBOX"
	ConditionUsed    Condition = "USED"
)

// StockLevel is the qualitative quantity bucket of an item, independent of
// the raw quantity count.
type StockLevel string

const (
	StockLevelInStock    StockLevel = "IN_STOCK"
	StockLevelLowStock   StockLevel = "LOW_STOCK"
	StockLevelOutOfStock StockLevel = "OUT_OF_STOCK"
)

var conditions = map[Condition]struct{}{
	ConditionNew:     {},
	ConditionOpenBox: {},
	ConditionUsed:    {},
}

var stockLevels = map[StockLevel]struct{}{
	StockLevelInStock:    {},
	StockLevelLowStock:   {},
	StockLevelOutOfStock: {},
}

// ParseCondition checks s against the set of known condition tokens.
func ParseCondition(s string) (Condition, error) {
	c := Condition(s)
	if _, ok := conditions[c]; !ok {
		return "", validationf("invalid value for condition: %q", s)
	}
	return c, nil
}

// ParseStockLevel checks s against the set of known stock level tokens.
func ParseStockLevel(s string) (StockLevel, error) {
	l := StockLevel(s)
	if _, ok := stockLevels[l]; !ok {
		return "", validationf("invalid value for stock_level: %q", s)
	}
	return l, nil
}

// Item is a single inventory record. ID is zero until the storage layer
// assigns one on create, and immutable afterwards.
type Item struct {
	ID         int64
	Name       string
	Quantity   int
	Condition  Condition
	StockLevel StockLevel
}

// ValidationError reports a payload that cannot be mapped to an Item.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
