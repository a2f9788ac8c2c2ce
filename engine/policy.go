package engine

import "errors"

var (
	ErrRosterCap     = errors.New("roster cap reached")
	ErrRestrictedCap = errors.New("restricted-category cap reached")
)

// Policy 是純粹的名額驗證規則，在出價時套用，
// 讓已達上限的隊伍連出價都會被擋下，而不是到結算才失敗。
type Policy struct {
	MaxRoster     int
	MaxRestricted int
}

// Allows 檢查隊伍是否還能競標這件拍品，兩項上限都必須通過
func (p Policy) Allows(team *Team, item *Item) error {
	if team.RosterCount >= p.MaxRoster {
		return ErrRosterCap
	}
	if item.Restricted && team.RestrictedCount >= p.MaxRestricted {
		return ErrRestrictedCap
	}
	return nil
}
