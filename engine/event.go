package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event 是引擎事件迴圈的輸入。
// 所有改變狀態的輸入（登入、準備、出價、結標投票、斷線、計時器到期）
// 都化為離散事件進入同一條序列化佇列，依入佇順序逐一套用。
type Event interface {
	isEvent()
}

// LoginEvent 代表某條連線請求以隊伍名稱登入
type LoginEvent struct {
	ConnID uuid.UUID
	Team   string
}

// ReadyEvent 代表隊伍宣告準備完成
type ReadyEvent struct {
	ConnID uuid.UUID
}

// BidEvent 代表隊伍對目前拍品出價
type BidEvent struct {
	ConnID uuid.UUID
	Amount decimal.Decimal
}

// FinalizeEvent 代表隊伍投票提前結標目前拍品
type FinalizeEvent struct {
	ConnID uuid.UUID
}

// SummaryEvent 代表隊伍請求自己的隊伍摘要
type SummaryEvent struct {
	ConnID uuid.UUID
}

// DisconnectEvent 代表連線結束，由傳輸層在讀取結束時送出
type DisconnectEvent struct {
	ConnID uuid.UUID
}

// timerFired 由計時器回呼送入佇列；epoch 過期的事件會被迴圈丟棄
type timerFired struct {
	kind  timerKind
	epoch uint64
}

// snapshotRequest 讓觀察端透過序列化佇列讀取一致的狀態快照
type snapshotRequest struct {
	reply chan<- Snapshot
}

func (LoginEvent) isEvent()      {}
func (ReadyEvent) isEvent()      {}
func (BidEvent) isEvent()        {}
func (FinalizeEvent) isEvent()   {}
func (SummaryEvent) isEvent()    {}
func (DisconnectEvent) isEvent() {}
func (timerFired) isEvent()      {}
func (snapshotRequest) isEvent() {}
