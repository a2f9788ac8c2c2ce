package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Player 的拍賣狀態，每位球員恰好從 Available 轉移一次到 Sold 或 Unsold
const (
	PlayerStatusAvailable = "Available"
	PlayerStatusSold      = "Sold"
	PlayerStatusUnsold    = "Unsold"
)

// Player 代表拍賣目錄中的一名球員
// 包含球員資訊、底價以及拍賣狀態
type Player struct {
	gorm.Model

	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;<-:create"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Role        string          `gorm:"type:varchar(50);not null"`
	Nationality string          `gorm:"type:varchar(50);not null"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;<-:create"`
	Status      string          `gorm:"type:varchar(20);not null;default:Available"`
}

// BeforeCreate 在建立時補上主鍵，讓 Postgres 和測試用的 SQLite 共用同一套模型
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
