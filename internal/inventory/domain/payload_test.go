package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"name":        "Widget",
		"quantity":    float64(10), // how encoding/json hands over an int
		"condition":   "NEW",
		"stock_level": "IN_STOCK",
	}
}

func TestFromPayloadValid(t *testing.T) {
	item, err := FromPayload(validPayload())
	require.NoError(t, err)
	require.Equal(t, Item{
		Name:       "Widget",
		Quantity:   10,
		Condition:  ConditionNew,
		StockLevel: StockLevelInStock,
	}, item)
	require.Zero(t, item.ID)
}

func TestFromPayloadMissingFieldNamesKey(t *testing.T) {
	for _, key := range []string{"name", "quantity", "condition", "stock_level"} {
		payload := validPayload()
		delete(payload, key)
		_, err := FromPayload(payload)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "missing %s", key)
		require.Contains(t, err.Error(), key)
	}
}

func TestFromPayloadQuantityTypes(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{"float64 integral", float64(7), 7, true},
		{"int", 3, 3, true},
		{"json.Number", json.Number("42"), 42, true},
		{"fractional", 10.5, 0, false},
		{"integral but beyond int64", 1e19, 0, false},
		{"integral but below int64", -1e19, 0, false},
		{"json.Number beyond int64", json.Number("10000000000000000000"), 0, false},
		{"numeric string", "10", 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			payload["quantity"] = tc.value
			item, err := FromPayload(payload)
			if !tc.ok {
				require.Error(t, err)
				require.Contains(t, err.Error(), "quantity")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, item.Quantity)
		})
	}
}

func TestFromPayloadRejectsUnknownEnumTokens(t *testing.T) {
	payload := validPayload()
	payload["condition"] = "SHINY"
	_, err := FromPayload(payload)
	require.Error(t, err)
	require.Contains(t, err.Error(), "condition")

	payload = validPayload()
	payload["stock_level"] = "BACKORDERED"
	_, err = FromPayload(payload)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stock_level")
}

func TestFromPayloadEmptyName(t *testing.T) {
	payload := validPayload()
	payload["name"] = ""
	_, err := FromPayload(payload)
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")
}

func TestParseCondition(t *testing.T) {
	for _, s := range []string{"NEW", "OPENBOX", "USED"} {
		c, err := ParseCondition(s)
		require.NoError(t, err)
		require.Equal(t, s, string(c))
	}
	_, err := ParseCondition("new")
	require.Error(t, err)
	_, err = ParseCondition("")
	require.Error(t, err)
}

func TestParseStockLevel(t *testing.T) {
	for _, s := range []string{"IN_STOCK", "LOW_STOCK", "OUT_OF_STOCK"} {
		l, err := ParseStockLevel(s)
		require.NoError(t, err)
		require.Equal(t, s, string(l))
	}
	_, err := ParseStockLevel("STOCKED")
	require.Error(t, err)
}

func TestPayloadRoundTrip(t *testing.T) {
	item, err := FromPayload(validPayload())
	require.NoError(t, err)
	item.ID = 9

	got := item.Payload()
	require.Equal(t, map[string]any{
		"id":          int64(9),
		"name":        "Widget",
		"quantity":    10,
		"condition":   "NEW",
		"stock_level": "IN_STOCK",
	}, got)

	// And back again through the mapper.
	back, err := FromPayload(got)
	require.NoError(t, err)
	back.ID = item.ID
	require.Equal(t, item, back)
}

func TestPayloadNullIDBeforeCreate(t *testing.T) {
	item := Item{Name: "Gadget", Quantity: 1, Condition: ConditionUsed, StockLevel: StockLevelLowStock}
	got := item.Payload()
	require.Nil(t, got["id"])

	b, err := json.Marshal(got)
	require.NoError(t, err)
	require.Contains(t, string(b), `"id":null`)
}
