package broadcast

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type hubOptions struct {
	logger     *slog.Logger
	bufferSize int
}

type HubOption func(*hubOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) HubOption {
	return func(o *hubOptions) {
		o.logger = logger
	}
}

// WithBufferSize 設置每條出站通道的緩衝大小
func WithBufferSize(size int) HubOption {
	return func(o *hubOptions) {
		o.bufferSize = size
	}
}

// Hub 管理所有連線的出站通道與觀察者訂閱。
// 寫入一律是非阻塞的：通道滿時丟棄訊息並記錄日誌，
// 緩慢的客戶端因此不會卡住拍賣引擎的事件迴圈。
type Hub[T any] struct {
	mu        sync.RWMutex
	closed    bool
	clients   map[uuid.UUID]chan T
	observers map[<-chan T]chan T
	logger    *slog.Logger
	options   hubOptions
}

// NewHub 建立一個新的廣播匯流排
func NewHub[T any](opts ...HubOption) *Hub[T] {
	options := hubOptions{
		logger:     slog.Default(),
		bufferSize: 32,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Hub[T]{
		clients:   make(map[uuid.UUID]chan T),
		observers: make(map[<-chan T]chan T),
		logger:    options.logger.With(slog.String("caller", "Hub")),
		options:   options,
	}
}

func (h *Hub[T]) Attach(id uuid.UUID) <-chan T {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		ch := make(chan T)
		close(ch)
		return ch
	}
	ch := make(chan T, h.options.bufferSize)
	h.clients[id] = ch
	h.logger.Debug("client attached", slog.String("id", id.String()), slog.Int("clients", len(h.clients)))
	return ch
}

func (h *Hub[T]) Detach(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(ch)
	h.logger.Debug("client detached", slog.String("id", id.String()), slog.Int("clients", len(h.clients)))
}

func (h *Hub[T]) SendTo(id uuid.UUID, message T) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.clients[id]
	if !ok {
		return false
	}
	h.deliver(id, ch, message)
	return true
}

func (h *Hub[T]) Broadcast(message T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		h.deliver(id, ch, message)
	}
	for _, ch := range h.observers {
		select {
		case ch <- message:
		default:
		}
	}
}

// deliver 非阻塞寫入，通道滿時丟棄訊息
func (h *Hub[T]) deliver(id uuid.UUID, ch chan T, message T) {
	select {
	case ch <- message:
	default:
		h.logger.Warn("outbound buffer full, message dropped", slog.String("id", id.String()))
	}
}

func (h *Hub[T]) Observe() <-chan T {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan T, h.options.bufferSize)
	if h.closed {
		close(ch)
		return ch
	}
	h.observers[ch] = ch
	return ch
}

func (h *Hub[T]) Unobserve(ch <-chan T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if writeCh, ok := h.observers[ch]; ok {
		delete(h.observers, ch)
		close(writeCh)
	}
}

func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
	for _, ch := range h.observers {
		close(ch)
	}
	clear(h.observers)
}
