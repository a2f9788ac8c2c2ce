package audit

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry 的動作種類
const (
	ActionBid    = "BID"
	ActionSold   = "SOLD"
	ActionUnsold = "UNSOLD"
)

// Entry 是一筆拍賣稽核紀錄：被接受的出價或拍品的最終結果
type Entry struct {
	Action string    `msgpack:"action"`
	Player string    `msgpack:"player"`
	Team   string    `msgpack:"team,omitempty"`
	Amount string    `msgpack:"amount,omitempty"`
	Time   time.Time `msgpack:"time"`
}

// encodeEntry 將紀錄序列化為 stream 訊息：msgpack 後再 base64 封裝
func encodeEntry(entry Entry) (map[string]any, error) {
	bytes, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("msgpack marshal error: %w", err)
	}
	return map[string]any{
		"data": base64.StdEncoding.EncodeToString(bytes),
	}, nil
}

// DecodeEntry 從 stream 訊息還原紀錄，下游消費者使用
func DecodeEntry(message map[string]any) (Entry, error) {
	var entry Entry
	dataStr, ok := message["data"].(string)
	if !ok {
		return entry, fmt.Errorf("data field not found or invalid type")
	}
	bytes, err := base64.StdEncoding.DecodeString(dataStr)
	if err != nil {
		return entry, fmt.Errorf("base64 decode error: %w", err)
	}
	if err := msgpack.Unmarshal(bytes, &entry); err != nil {
		return entry, fmt.Errorf("msgpack unmarshal error: %w", err)
	}
	return entry, nil
}
