package engine

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gavel/models"
)

var ErrAlreadyResolved = errors.New("item already resolved")

// Item 是拍賣目錄中的一件拍品。
// Status 只會從 Available 轉移一次到 Sold 或 Unsold。
type Item struct {
	ID          uuid.UUID
	Name        string
	Role        string
	Nationality string
	BasePrice   decimal.Decimal
	Restricted  bool
	Status      string
}

// Resolve 將拍品標記為 Sold 或 Unsold，重複標記視為錯誤
func (i *Item) Resolve(status string) error {
	if i.Status != models.PlayerStatusAvailable {
		return ErrAlreadyResolved
	}
	i.Status = status
	return nil
}

// Catalog 是本場拍賣的拍品序列，啟動時載入一次，
// 洗牌後依序取出，拍品不會重新進入序列。
type Catalog struct {
	items []*Item
	index int
}

// NewCatalog 將球員名單轉換為拍賣目錄。
// home 是不受限制類別名額限制的國籍，其餘國籍視為受限類別。
func NewCatalog(players []models.Player, home string) *Catalog {
	items := make([]*Item, len(players))
	for i, p := range players {
		items[i] = &Item{
			ID:          p.ID,
			Name:        p.Name,
			Role:        p.Role,
			Nationality: p.Nationality,
			BasePrice:   p.BasePrice,
			Restricted:  !strings.EqualFold(p.Nationality, home),
			Status:      models.PlayerStatusAvailable,
		}
	}
	return &Catalog{items: items}
}

// Shuffle 隨機打亂尚未取出的拍品順序
func (c *Catalog) Shuffle() {
	rand.Shuffle(len(c.items), func(i, j int) {
		c.items[i], c.items[j] = c.items[j], c.items[i]
	})
}

// Next 取出下一件拍品，目錄耗盡時回傳 nil
func (c *Catalog) Next() *Item {
	if c.index >= len(c.items) {
		return nil
	}
	item := c.items[c.index]
	c.index++
	return item
}

// Remaining 回傳尚未取出的拍品數
func (c *Catalog) Remaining() int {
	return len(c.items) - c.index
}

// Unsold 回傳流標的拍品數
func (c *Catalog) Unsold() int {
	count := 0
	for _, item := range c.items {
		if item.Status == models.PlayerStatusUnsold {
			count++
		}
	}
	return count
}

// Len 回傳目錄的總拍品數
func (c *Catalog) Len() int {
	return len(c.items)
}
