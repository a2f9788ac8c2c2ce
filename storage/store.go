package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"gavel/models"
)

// Config 是資料庫連線設定
type Config struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

// Store 封裝拍賣系統的持久層：球員目錄與成交紀錄。
// 引擎對 Store 的寫入都是 fire-and-forget，失敗只記錄日誌，
// 場次進行中的真相始終以記憶體狀態為準。
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open 依設定建立 Postgres 連線並回傳 Store
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	const op = "storage.Open"
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: cfg.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	return New(db, logger), nil
}

// New 以現有的 gorm 連線建立 Store，測試時搭配 SQLite 使用
func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With(slog.String("caller", "Store")),
	}
}

// Migrate 建立或更新資料表結構
func (s *Store) Migrate() error {
	const op = "Migrate"
	if err := s.db.AutoMigrate(&models.Player{}, &models.Acquisition{}); err != nil {
		return fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}
	return nil
}

// SeedIfEmpty 在球員目錄為空時寫入預設名單，回傳寫入的筆數
func (s *Store) SeedIfEmpty() (int, error) {
	const op = "SeedIfEmpty"
	var count int64
	if result := s.db.Model(&models.Player{}).Count(&count); result.Error != nil {
		return 0, fmt.Errorf("[%s] Fail to count players, err=%w", op, result.Error)
	}
	if count > 0 {
		return 0, nil
	}
	players := DefaultPlayers()
	if result := s.db.Create(&players); result.Error != nil {
		return 0, fmt.Errorf("[%s] Fail to seed players, err=%w", op, result.Error)
	}
	s.logger.Info("Seeded player catalog", slog.Int("players", len(players)))
	return len(players), nil
}

// LoadCatalog 讀取所有仍可拍賣的球員，依底價由高至低排序。
// 排序後的洗牌由引擎負責。
func (s *Store) LoadCatalog(ctx context.Context) ([]models.Player, error) {
	const op = "LoadCatalog"
	var players []models.Player
	result := s.db.WithContext(ctx).
		Where("status = ?", models.PlayerStatusAvailable).
		Order("base_price desc").
		Find(&players)
	if result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to load catalog, err=%w", op, result.Error)
	}
	return players, nil
}

// MarkPlayerStatus 更新球員的拍賣狀態
func (s *Store) MarkPlayerStatus(ctx context.Context, playerID uuid.UUID, status string) error {
	const op = "MarkPlayerStatus"
	result := s.db.WithContext(ctx).
		Model(&models.Player{}).
		Where("id = ?", playerID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to update player status, err=%w", op, result.Error)
	}
	return nil
}

// RecordAcquisition 寫入一筆成交紀錄
func (s *Store) RecordAcquisition(ctx context.Context, playerID uuid.UUID, teamName string, price decimal.Decimal) error {
	const op = "RecordAcquisition"
	record := models.Acquisition{
		PlayerID: playerID,
		TeamName: teamName,
		Price:    price,
	}
	if result := s.db.WithContext(ctx).Create(&record); result.Error != nil {
		return fmt.Errorf("[%s] Fail to record acquisition, err=%w", op, result.Error)
	}
	return nil
}

// TeamAcquisitions 讀取單一隊伍的所有成交紀錄，依金額由高至低排序
func (s *Store) TeamAcquisitions(ctx context.Context, teamName string) ([]models.Acquisition, error) {
	const op = "TeamAcquisitions"
	var records []models.Acquisition
	result := s.db.WithContext(ctx).
		Preload("Player").
		Where("team_name = ?", teamName).
		Order("price desc").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to load team acquisitions, err=%w", op, result.Error)
	}
	return records, nil
}
