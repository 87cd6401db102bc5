package project

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_BAC(t *testing.T) {
	t.Run("is the contractual total", func(t *testing.T) {
		amount := decimal.RequireFromString("125000.50")
		p := Project{Id: 1, ContractAmount: &amount}

		bac, err := p.BAC()

		require.NoError(t, err)
		assert.True(t, amount.Equal(bac))
	})

	t.Run("fails without a contract", func(t *testing.T) {
		_, err := Project{Id: 1}.BAC()

		require.ErrorIs(t, err, ErrNoContractualBasis)
	})
}
