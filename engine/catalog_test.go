package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gavel/models"
)

func TestNewCatalog(t *testing.T) {
	players := []models.Player{
		{Name: "V Kohli", Role: "Batsman", Nationality: "Indian", BasePrice: decimal.NewFromInt(2000)},
		{Name: "M Starc", Role: "Bowler", Nationality: "Australian", BasePrice: decimal.NewFromInt(1500)},
		{Name: "R Sharma", Role: "Batsman", Nationality: "indian", BasePrice: decimal.NewFromInt(1800)},
	}
	catalog := NewCatalog(players, "Indian")
	require.Equal(t, 3, catalog.Len())

	first := catalog.Next()
	require.NotNil(t, first)
	assert.False(t, first.Restricted)

	second := catalog.Next()
	require.NotNil(t, second)
	assert.True(t, second.Restricted)

	// 國籍比對不分大小寫
	third := catalog.Next()
	require.NotNil(t, third)
	assert.False(t, third.Restricted)

	assert.Nil(t, catalog.Next())
	assert.Zero(t, catalog.Remaining())
}

func TestCatalogShuffleKeepsContents(t *testing.T) {
	players := make([]models.Player, 20)
	for i := range players {
		players[i] = models.Player{Name: string(rune('A' + i)), Nationality: "Indian", BasePrice: decimal.NewFromInt(int64(100 + i))}
	}
	catalog := NewCatalog(players, "Indian")
	catalog.Shuffle()

	seen := make(map[string]bool)
	for item := catalog.Next(); item != nil; item = catalog.Next() {
		assert.False(t, seen[item.Name], "item drawn twice")
		seen[item.Name] = true
	}
	assert.Len(t, seen, 20)
}

func TestItemResolve(t *testing.T) {
	item := &Item{Name: "V Kohli", Status: models.PlayerStatusAvailable}
	require.NoError(t, item.Resolve(models.PlayerStatusSold))
	assert.Equal(t, models.PlayerStatusSold, item.Status)

	// 同一件拍品只能結案一次
	err := item.Resolve(models.PlayerStatusUnsold)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, models.PlayerStatusSold, item.Status)
}

func TestCatalogUnsold(t *testing.T) {
	players := []models.Player{
		{Name: "A", Nationality: "Indian", BasePrice: decimal.NewFromInt(100)},
		{Name: "B", Nationality: "Indian", BasePrice: decimal.NewFromInt(100)},
	}
	catalog := NewCatalog(players, "Indian")
	require.NoError(t, catalog.Next().Resolve(models.PlayerStatusUnsold))
	require.NoError(t, catalog.Next().Resolve(models.PlayerStatusSold))
	assert.Equal(t, 1, catalog.Unsold())
}
