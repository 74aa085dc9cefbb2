package domain

import (
	"encoding/json"
	"math"
)

// FromPayload maps an untyped JSON object onto an Item, validating field
// presence, types and enum membership in one place so create and update
// share the same rules. The returned Item has no ID; the update path stamps
// the path id on afterwards.
func FromPayload(data map[string]any) (Item, error) {
	var item Item

	name, err := stringField(data, "name")
	if err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, validationf("name must not be empty")
	}
	item.Name = name

	item.Quantity, err = intField(data, "quantity")
	if err != nil {
		return Item{}, err
	}

	cond, err := stringField(data, "condition")
	if err != nil {
		return Item{}, err
	}
	if item.Condition, err = ParseCondition(cond); err != nil {
		return Item{}, err
	}

	level, err := stringField(data, "stock_level")
	if err != nil {
		return Item{}, err
	}
	if item.StockLevel, err = ParseStockLevel(level); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Payload is the inverse of FromPayload. It is total: any Item serializes,
// with enum fields as their string tokens and a null id before creation.
func (i Item) Payload() map[string]any {
	var id any
	if i.ID != 0 {
		id = i.ID
	}
	return map[string]any{
		"id":          id,
		"name":        i.Name,
		"quantity":    i.Quantity,
		"condition":   string(i.Condition),
		"stock_level": string(i.StockLevel),
	}
}

func stringField(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", validationf("missing %s", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", validationf("invalid type for string [%s]", key)
	}
	return s, nil
}

// intField accepts the shapes an integer takes after JSON decoding. A
// fractional number or a numeric string is rejected, not truncated.
func intField(data map[string]any, key string) (int, error) {
	raw, ok := data[key]
	if !ok {
		return 0, validationf("missing %s", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, validationf("invalid type for int [%s]", key)
		}
		// float64(math.MaxInt64) is 2^63 exactly, one past the largest
		// int64, so >= keeps the conversion below in range.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, validationf("value out of range for int [%s]", key)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, validationf("invalid type for int [%s]", key)
		}
		return int(n), nil
	default:
		return 0, validationf("invalid type for int [%s]", key)
	}
}
