// Package tcp 實作隊伍客戶端的逐行 TCP 傳輸。
// 每條連線有獨立的讀取與寫出 goroutine：讀取端把解碼後的事件送進
// 引擎的序列化佇列，寫出端排空廣播匯流排配給的出站通道；
// 連線本身不持有任何拍賣狀態。
package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"gavel/adapters/broadcast"
	"gavel/engine"
	"gavel/protocol"
)

type serverOptions struct {
	logger     *slog.Logger
	maxClients int
}

type ServerOption func(*serverOptions)

// WithServerLogger 設置日誌記錄器
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithMaxClients 設置同時連線數上限，超出的連線直接拒絕
func WithMaxClients(n int) ServerOption {
	return func(o *serverOptions) {
		o.maxClients = n
	}
}

// Server 是拍賣伺服器的 TCP 入口
type Server struct {
	engine *engine.Engine
	hub    broadcast.IHub[string]
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
	options  serverOptions
}

func NewServer(eng *engine.Engine, hub broadcast.IHub[string], opts ...ServerOption) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	// 默認選項
	options := serverOptions{
		logger:     slog.Default(),
		maxClients: 10,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Server{
		engine:  eng,
		hub:     hub,
		logger:  options.logger.With(slog.String("caller", "TCPServer")),
		conns:   make(map[net.Conn]struct{}),
		options: options,
	}, nil
}

// Start 開始監聽並接受連線
func (s *Server) Start(addr string) error {
	const op = "Start"
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("[%s] Fail to listen on %s, err=%w", op, addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.logger.Info("auction server listening",
		slog.String("addr", listener.Addr().String()),
		slog.Int("maxClients", s.options.maxClients))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if s.isClosed() {
					return
				}
				s.logger.Error("accept error", slog.Any("error", err))
				continue
			}
			if !s.track(conn) {
				s.logger.Warn("maximum clients reached, rejecting connection",
					slog.String("remote", conn.RemoteAddr().String()))
				conn.Close()
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleConn(conn)
			}()
		}
	}()
	return nil
}

// Addr 回傳實際監聽的位址，監聽埠為 0 的測試用得到
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close 停止監聽、斷開所有連線並等待 goroutine 結束
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Info("auction server stopped")
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// track 將連線納入管理，超出上限時回傳 false
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.conns) >= s.options.maxClients {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleConn 服務單一連線直到客戶端離開或伺服器關閉
func (s *Server) handleConn(conn net.Conn) {
	id := uuid.New()
	logger := s.logger.With(slog.String("conn", id.String()), slog.String("remote", conn.RemoteAddr().String()))
	logger.Info("client connected")

	// 寫出端：排空匯流排配給的出站通道
	out := s.hub.Attach(id)
	writeCtx, cancelWrite := context.WithCancel(context.Background())
	var writeWG sync.WaitGroup
	writeWG.Add(1)
	go func() {
		defer writeWG.Done()
		for {
			select {
			case <-writeCtx.Done():
				return
			case msg, ok := <-out:
				if !ok {
					return
				}
				if _, err := fmt.Fprintln(conn, msg); err != nil {
					return
				}
			}
		}
	}()

	// 讀取端：逐行解碼並將事件送入引擎
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		inbound, err := protocol.Parse(scanner.Text())
		if err != nil {
			// 格式錯誤只回覆拒絕訊息，連線保持開啟
			s.hub.SendTo(id, protocol.ErrorMessage("Message processing failed"))
			logger.Warn("malformed message", slog.Any("error", err))
			continue
		}
		switch inbound.Kind {
		case protocol.KindLogin:
			s.engine.Submit(engine.LoginEvent{ConnID: id, Team: inbound.Name})
		case protocol.KindReady:
			s.engine.Submit(engine.ReadyEvent{ConnID: id})
		case protocol.KindBid:
			s.engine.Submit(engine.BidEvent{ConnID: id, Amount: inbound.Amount})
		case protocol.KindFinalize:
			s.engine.Submit(engine.FinalizeEvent{ConnID: id})
		case protocol.KindSummary:
			s.engine.Submit(engine.SummaryEvent{ConnID: id})
		case protocol.KindExit:
			goto done
		}
	}
done:
	s.engine.Submit(engine.DisconnectEvent{ConnID: id})
	s.hub.Detach(id)
	cancelWrite()
	writeWG.Wait()
	s.untrack(conn)
	conn.Close()
	logger.Info("client disconnected")
}
