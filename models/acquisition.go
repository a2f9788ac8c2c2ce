package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Acquisition 代表一筆成交紀錄
// 記錄得標隊伍、球員和成交金額；所有隊伍共用同一張表
type Acquisition struct {
	gorm.Model

	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;<-:create"`
	PlayerID uuid.UUID       `gorm:"type:uuid;not null;<-:create"`
	TeamName string          `gorm:"type:varchar(100);not null;<-:create"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null;<-:create"`

	// 外鍵關聯
	Player *Player `gorm:"foreignKey:PlayerID"`
}

// BeforeCreate 在建立時補上主鍵
func (a *Acquisition) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
