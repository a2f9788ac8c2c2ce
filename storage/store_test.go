package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gavel/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	store := New(db, nil)
	require.NoError(t, store.Migrate())
	require.NoError(t, db.Exec("DELETE FROM acquisitions").Error)
	require.NoError(t, db.Exec("DELETE FROM players").Error)
	return store
}

func TestStoreSeedIfEmpty(t *testing.T) {
	store := newTestStore(t)

	seeded, err := store.SeedIfEmpty()
	require.NoError(t, err)
	assert.Equal(t, len(seedPlayers), seeded)

	// 已有資料時不重複寫入
	seeded, err = store.SeedIfEmpty()
	require.NoError(t, err)
	assert.Zero(t, seeded)
}

func TestStoreLoadCatalog(t *testing.T) {
	store := newTestStore(t)
	players := []models.Player{
		{Name: "Low", Role: "BATTER", Nationality: "India", BasePrice: decimal.NewFromInt(30), Status: models.PlayerStatusAvailable},
		{Name: "High", Role: "BOWLER", Nationality: "Australia", BasePrice: decimal.NewFromInt(200), Status: models.PlayerStatusAvailable},
		{Name: "Gone", Role: "BATTER", Nationality: "India", BasePrice: decimal.NewFromInt(100), Status: models.PlayerStatusSold},
	}
	require.NoError(t, store.db.Create(&players).Error)

	catalog, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	// 已售出的球員不在目錄中，其餘依底價由高至低
	assert.Equal(t, "High", catalog[0].Name)
	assert.Equal(t, "Low", catalog[1].Name)
}

func TestStoreMarkPlayerStatus(t *testing.T) {
	store := newTestStore(t)
	player := models.Player{Name: "Virat Kohli", Role: "BATTER", Nationality: "India", BasePrice: decimal.NewFromInt(200), Status: models.PlayerStatusAvailable}
	require.NoError(t, store.db.Create(&player).Error)

	require.NoError(t, store.MarkPlayerStatus(context.Background(), player.ID, models.PlayerStatusSold))

	var reloaded models.Player
	require.NoError(t, store.db.First(&reloaded, "id = ?", player.ID).Error)
	assert.Equal(t, models.PlayerStatusSold, reloaded.Status)
}

func TestStoreAcquisitions(t *testing.T) {
	store := newTestStore(t)
	players := []models.Player{
		{Name: "Virat Kohli", Role: "BATTER", Nationality: "India", BasePrice: decimal.NewFromInt(200), Status: models.PlayerStatusSold},
		{Name: "Mitchell Starc", Role: "BOWLER", Nationality: "Australia", BasePrice: decimal.NewFromInt(200), Status: models.PlayerStatusSold},
	}
	require.NoError(t, store.db.Create(&players).Error)

	require.NoError(t, store.RecordAcquisition(context.Background(), players[0].ID, "Mumbai", decimal.NewFromInt(500)))
	require.NoError(t, store.RecordAcquisition(context.Background(), players[1].ID, "Mumbai", decimal.NewFromInt(750)))

	records, err := store.TeamAcquisitions(context.Background(), "Mumbai")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 依金額由高至低排序，並帶出球員資訊
	assert.Equal(t, "Mitchell Starc", records[0].Player.Name)
	assert.True(t, decimal.NewFromInt(750).Equal(records[0].Price))
	assert.Equal(t, "Virat Kohli", records[1].Player.Name)

	// 其他隊伍查不到 Mumbai 的紀錄
	records, err = store.TeamAcquisitions(context.Background(), "Chennai")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDefaultPlayersAreFresh(t *testing.T) {
	first := DefaultPlayers()
	second := DefaultPlayers()
	require.NotEmpty(t, first)
	first[0].Name = "mutated"
	assert.NotEqual(t, first[0].Name, second[0].Name)
}
