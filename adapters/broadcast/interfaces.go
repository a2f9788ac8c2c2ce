package broadcast

import "github.com/google/uuid"

// IHub 定義了廣播匯流排的介面。
// 連線端以 uuid 掛載取得專屬的出站通道，觀察者則收到所有廣播的副本。
type IHub[T any] interface {
	// Attach 掛載一條連線，回傳該連線的出站通道
	Attach(id uuid.UUID) <-chan T
	// Detach 卸載連線並關閉其通道
	Detach(id uuid.UUID)
	// SendTo 傳送訊息給指定連線，連線不存在時回傳 false
	SendTo(id uuid.UUID, message T) bool
	// Broadcast 將訊息廣播給所有連線與觀察者
	Broadcast(message T)
	// Observe 訂閱所有廣播訊息的副本
	Observe() <-chan T
	// Unobserve 取消觀察者訂閱
	Unobserve(ch <-chan T)
	// Close 關閉所有通道並停止運作
	Close()
}
