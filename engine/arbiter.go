package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBidInactive = errors.New("no active bidding")
	ErrBidTooLow   = errors.New("bid below minimum")
)

// Arbiter 持有目前拍品的最高出價與出價者，
// 依最低加價幅度與驗證規則決定是否接受挑戰出價。
// 被接受的出價永遠不會降低價格。
type Arbiter struct {
	increment decimal.Decimal
	open      bool
	bid       decimal.Decimal
	bidder    string
}

// NewArbiter 建立仲裁者，increment 是固定的最低加價幅度
func NewArbiter(increment decimal.Decimal) *Arbiter {
	return &Arbiter{increment: increment}
}

// Open 為新拍品開盤：最高價從底價起算，尚無出價者
func (a *Arbiter) Open(basePrice decimal.Decimal) {
	a.open = true
	a.bid = basePrice
	a.bidder = ""
}

// CloseOut 收盤並回傳最後的出價者與價格；沒有任何出價時出價者為空字串
func (a *Arbiter) CloseOut() (string, decimal.Decimal) {
	a.open = false
	return a.bidder, a.bid
}

// Minimum 回傳下一筆出價的最低可接受金額
func (a *Arbiter) Minimum() decimal.Decimal {
	return a.bid.Add(a.increment)
}

// Current 回傳目前的最高出價者與金額
func (a *Arbiter) Current() (string, decimal.Decimal) {
	return a.bidder, a.bid
}

// Propose 依序驗證一筆挑戰出價：開盤狀態、最低加價、預算、名額。
// 全部通過時更新最高出價並回傳 nil，否則回傳對應的拒絕原因。
func (a *Arbiter) Propose(team *Team, item *Item, amount decimal.Decimal, policy Policy) error {
	if !a.open {
		return ErrBidInactive
	}
	if amount.LessThan(a.Minimum()) {
		return ErrBidTooLow
	}
	if amount.GreaterThan(team.Budget) {
		return ErrInsufficientFunds
	}
	if err := policy.Allows(team, item); err != nil {
		return err
	}
	a.bid = amount
	a.bidder = team.Name
	return nil
}
