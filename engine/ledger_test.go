package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRegister(t *testing.T) {
	ledger := NewLedger(decimal.NewFromInt(12000))

	team, err := ledger.Register("Mumbai")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", team.Name)
	assert.True(t, decimal.NewFromInt(12000).Equal(team.Budget))
	assert.Zero(t, team.RosterCount)

	_, err = ledger.Register("Mumbai")
	assert.ErrorIs(t, err, ErrDuplicateTeam)
	assert.Equal(t, 1, ledger.Count())
}

func TestLedgerDeregister(t *testing.T) {
	ledger := NewLedger(decimal.NewFromInt(12000))
	_, err := ledger.Register("Mumbai")
	require.NoError(t, err)

	assert.True(t, ledger.Deregister("Mumbai"))
	assert.False(t, ledger.Deregister("Mumbai"))
	assert.Equal(t, 0, ledger.Count())

	// 同名隊伍在離開後可以重新登記
	_, err = ledger.Register("Mumbai")
	assert.NoError(t, err)
}

func TestLedgerNames(t *testing.T) {
	ledger := NewLedger(decimal.NewFromInt(12000))
	for _, name := range []string{"Chennai", "Ahmedabad", "Bangalore"} {
		_, err := ledger.Register(name)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Ahmedabad", "Bangalore", "Chennai"}, ledger.Names())
}

func TestLedgerSettle(t *testing.T) {
	ledger := NewLedger(decimal.NewFromInt(1000))
	_, err := ledger.Register("Mumbai")
	require.NoError(t, err)

	item := &Item{
		Name:        "M Starc",
		Role:        "Bowler",
		Nationality: "Australian",
		BasePrice:   decimal.NewFromInt(500),
		Restricted:  true,
	}

	t.Run("unknown team", func(t *testing.T) {
		_, err := ledger.Settle("Ghost", item, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, ErrUnknownTeam)
	})

	t.Run("successful settlement debits and counts", func(t *testing.T) {
		team, err := ledger.Settle("Mumbai", item, decimal.NewFromInt(600))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(400).Equal(team.Budget))
		assert.Equal(t, 1, team.RosterCount)
		assert.Equal(t, 1, team.RestrictedCount)
		require.Len(t, team.Acquisitions, 1)
		assert.Equal(t, "M Starc", team.Acquisitions[0].Name)
		assert.True(t, decimal.NewFromInt(600).Equal(team.Acquisitions[0].Price))
	})

	t.Run("over budget rejected without partial update", func(t *testing.T) {
		team, _ := ledger.Get("Mumbai")
		before := team.Budget
		_, err := ledger.Settle("Mumbai", item, decimal.NewFromInt(500))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, before.Equal(team.Budget))
		assert.Equal(t, 1, team.RosterCount)
	})

	t.Run("home item does not count as restricted", func(t *testing.T) {
		home := &Item{Name: "V Kohli", Role: "Batsman", Nationality: "Indian", BasePrice: decimal.NewFromInt(100)}
		team, err := ledger.Settle("Mumbai", home, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, 2, team.RosterCount)
		assert.Equal(t, 1, team.RestrictedCount)
	})
}
