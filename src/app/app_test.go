package app

import (
	"encoding/json"
	"testing"

	"stockpanel/src/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureEncodingRendersDecimalsAsNumbers(t *testing.T) {
	previous := decimal.MarshalJSONWithoutQuotes
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = previous })

	block := model.OpenBlock{CurrentValue: decimal.RequireFromString("125.5")}

	decimal.MarshalJSONWithoutQuotes = false
	raw, err := json.Marshal(block)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"currentValue":"125.5"`)

	ConfigureEncoding()
	raw, err = json.Marshal(block)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"currentValue":125.5`)
}
