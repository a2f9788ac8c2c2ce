package engine

import (
	"errors"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateTeam     = errors.New("team name already exists")
	ErrUnknownTeam       = errors.New("team not registered")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AcquiredItem 是隊伍摘要用的在記憶體成交項目
type AcquiredItem struct {
	Name        string
	Role        string
	Nationality string
	BasePrice   decimal.Decimal
	Price       decimal.Decimal
}

// Team 是一支已登入隊伍的帳本項目
type Team struct {
	Name            string
	Budget          decimal.Decimal
	RosterCount     int
	RestrictedCount int
	Acquisitions    []AcquiredItem
}

// Ledger 管理所有已登入隊伍的帳本。
// 只有引擎的事件迴圈會操作 Ledger，不需要另外加鎖。
type Ledger struct {
	initialPurse decimal.Decimal
	teams        map[string]*Team
}

// NewLedger 建立帳本，initialPurse 是每支隊伍登入時的起始預算
func NewLedger(initialPurse decimal.Decimal) *Ledger {
	return &Ledger{
		initialPurse: initialPurse,
		teams:        make(map[string]*Team),
	}
}

// Register 登記一支新隊伍，名稱重複時回傳 ErrDuplicateTeam
func (l *Ledger) Register(name string) (*Team, error) {
	if _, ok := l.teams[name]; ok {
		return nil, ErrDuplicateTeam
	}
	team := &Team{
		Name:   name,
		Budget: l.initialPurse,
	}
	l.teams[name] = team
	return team, nil
}

// Deregister 移除隊伍的帳本項目；已成交項目的歸屬保留在外部持久層
func (l *Ledger) Deregister(name string) bool {
	if _, ok := l.teams[name]; !ok {
		return false
	}
	delete(l.teams, name)
	return true
}

// Get 取得隊伍的帳本項目
func (l *Ledger) Get(name string) (*Team, bool) {
	team, ok := l.teams[name]
	return team, ok
}

// Count 回傳目前登記的隊伍數
func (l *Ledger) Count() int {
	return len(l.teams)
}

// Names 回傳排序後的隊伍名稱
func (l *Ledger) Names() []string {
	names := lo.Keys(l.teams)
	sort.Strings(names)
	return names
}

// Settle 將拍品以 price 結算給隊伍：扣除預算並累計名額。
// 預算不足時整筆結算拒絕，不做部分更新；預算因此永遠不為負。
func (l *Ledger) Settle(name string, item *Item, price decimal.Decimal) (*Team, error) {
	team, ok := l.teams[name]
	if !ok {
		return nil, ErrUnknownTeam
	}
	if price.GreaterThan(team.Budget) {
		return nil, ErrInsufficientFunds
	}
	team.Budget = team.Budget.Sub(price)
	team.RosterCount++
	if item.Restricted {
		team.RestrictedCount++
	}
	team.Acquisitions = append(team.Acquisitions, AcquiredItem{
		Name:        item.Name,
		Role:        item.Role,
		Nationality: item.Nationality,
		BasePrice:   item.BasePrice,
		Price:       price,
	})
	return team, nil
}
