package assistant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Run("plain text is not an action", func(t *testing.T) {
		_, ok := ParseAction("Olá! Temos 3 produtos cadastrados.")
		assert.False(t, ok)
	})

	t.Run("text mentioning action outside an object is not an action", func(t *testing.T) {
		_, ok := ParseAction(`use the "action" field`)
		assert.False(t, ok)
	})

	t.Run("invalid JSON is not an action", func(t *testing.T) {
		_, ok := ParseAction(`{"action": "CREATE", "name": }`)
		assert.False(t, ok)
	})

	t.Run("decodes envelope with surrounding whitespace", func(t *testing.T) {
		action, ok := ParseAction("  \n{\"action\": \"CREATE\", \"name\": \"Mouse\", \"price\": 49.9, \"category\": \"Electronics\"}\n")
		require.True(t, ok)
		assert.Equal(t, ActionCreate, action.Type)

		name, ok := action.Text("name")
		assert.True(t, ok)
		assert.Equal(t, "Mouse", name)

		price, err := action.Decimal("price")
		require.NoError(t, err)
		require.NotNil(t, price)
		assert.True(t, price.Equal(decimal.RequireFromString("49.9")))

		stock, err := action.Int("stock")
		require.NoError(t, err)
		assert.Nil(t, stock)
	})

	t.Run("unknown action type is preserved", func(t *testing.T) {
		action, ok := ParseAction(`{"action": "LIST"}`)
		require.True(t, ok)
		assert.Equal(t, ActionType("LIST"), action.Type)
	})
}

func TestAction_FlexibleNumbers(t *testing.T) {
	action, ok := ParseAction(`{"action": "UPDATE", "price": "1299.90", "stock": "15"}`)
	require.True(t, ok)

	price, err := action.Decimal("price")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("1299.90")))

	stock, err := action.Int("stock")
	require.NoError(t, err)
	assert.Equal(t, 15, *stock)

	action, ok = ParseAction(`{"action": "UPDATE", "stock": 7.0}`)
	require.True(t, ok)
	stock, err = action.Int("stock")
	require.NoError(t, err)
	assert.Equal(t, 7, *stock)
}

func TestAction_InvalidValues(t *testing.T) {
	action, ok := ParseAction(`{"action": "CREATE", "price": "cheap", "id": "not-a-uuid"}`)
	require.True(t, ok)

	_, err := action.Decimal("price")
	assert.Error(t, err)

	_, err = action.UUID("id")
	assert.Error(t, err)
}

func TestAction_EmptyAndNullFields(t *testing.T) {
	action, ok := ParseAction(`{"action": "UPDATE", "id": "", "name": "", "price": null}`)
	require.True(t, ok)

	id, err := action.UUID("id")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, ok = action.NonEmptyText("name")
	assert.False(t, ok)
	assert.True(t, action.Has("name"))

	price, err := action.Decimal("price")
	require.NoError(t, err)
	assert.Nil(t, price)
	assert.False(t, action.Has("price"))
}
