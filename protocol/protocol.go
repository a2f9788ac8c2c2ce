// Package protocol 定義拍賣伺服器與隊伍客戶端之間逐行傳輸的訊息格式。
// 每則訊息佔一行，欄位以冒號分隔，金額一律輸出兩位小數。
package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind 是入站訊息的種類
type Kind int

const (
	KindUnknown Kind = iota
	KindLogin
	KindReady
	KindBid
	KindFinalize
	KindSummary
	KindExit
)

var ErrMalformed = errors.New("malformed message")

// Inbound 是解碼後的入站訊息
type Inbound struct {
	Kind   Kind
	Name   string          // KindLogin 的隊伍名稱
	Amount decimal.Decimal // KindBid 的出價金額
}

// Parse 將一行文字解碼為入站訊息
func Parse(line string) (Inbound, error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "LOGIN:"):
		name := strings.TrimSpace(strings.TrimPrefix(line, "LOGIN:"))
		if name == "" {
			return Inbound{}, fmt.Errorf("empty team name: %w", ErrMalformed)
		}
		return Inbound{Kind: KindLogin, Name: name}, nil
	case strings.HasPrefix(line, "BID:"):
		raw := strings.TrimSpace(strings.TrimPrefix(line, "BID:"))
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return Inbound{}, fmt.Errorf("invalid bid amount %q: %w", raw, ErrMalformed)
		}
		return Inbound{Kind: KindBid, Amount: amount}, nil
	case line == "READY":
		return Inbound{Kind: KindReady}, nil
	case line == "FINALIZE_PLAYER":
		return Inbound{Kind: KindFinalize}, nil
	case line == "DISPLAY_TEAMS":
		return Inbound{Kind: KindSummary}, nil
	case line == "EXIT":
		return Inbound{Kind: KindExit}, nil
	}
	return Inbound{}, fmt.Errorf("unknown message %q: %w", line, ErrMalformed)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// 出站訊息的組裝函數，與原有客戶端的詞彙完全一致

func LoginSuccess(team string) string {
	return fmt.Sprintf("LOGIN_SUCCESS:Welcome %s!", team)
}

func LoginRejected(reason string) string {
	return "LOGIN_REJECTED:" + reason
}

func TeamJoined(team string) string {
	return "TEAM_JOINED:" + team
}

func TeamLeft(team string) string {
	return "TEAM_LEFT:" + team
}

func TeamReady(team string) string {
	return "TEAM_READY:" + team
}

func AuctionStarted() string {
	return "AUCTION_STARTED"
}

func NewPlayer(name string, basePrice decimal.Decimal, role, nationality string) string {
	return fmt.Sprintf("NEW_PLAYER:%s:%s:Type:%s:Nationality:%s", name, money(basePrice), role, nationality)
}

func NewBid(team string, amount decimal.Decimal) string {
	return fmt.Sprintf("NEW_BID:%s:%s", team, money(amount))
}

func BidRejected(reason string) string {
	return "BID_REJECTED:" + reason
}

func BidRejectedTooLow(minimum decimal.Decimal) string {
	return fmt.Sprintf("BID_REJECTED:Bid must be at least %s", money(minimum))
}

func BidRejectedInsufficientFunds(available decimal.Decimal) string {
	return fmt.Sprintf("BID_REJECTED:Insufficient funds (Available: %s)", money(available))
}

func BiddingTimeout() string {
	return "BIDDING_TIMEOUT:Moving to finalization"
}

func FinalizeRejected(reason string) string {
	return "FINALIZE_REJECTED:" + reason
}

func FinalizationProgress(votes, total int) string {
	return fmt.Sprintf("FINALIZATION_PROGRESS:%d/%d", votes, total)
}

func FinalizationTimeout() string {
	return "FINALIZATION_TIMEOUT:Auto-finalizing"
}

func PlayerSold(team string, price, remaining decimal.Decimal) string {
	return fmt.Sprintf("PLAYER_SOLD:%s:%s:Remaining purse: %s", team, money(price), money(remaining))
}

func PlayerUnsold(name string) string {
	return "PLAYER_UNSOLD:" + name
}

func AuctionFinished() string {
	return "AUCTION_FINISHED"
}

func ErrorMessage(msg string) string {
	return "ERROR:" + msg
}
