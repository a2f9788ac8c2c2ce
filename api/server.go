// Package api 提供唯讀的觀察端 HTTP 介面：
// 場次快照、隊伍成交紀錄，以及即時訊息的 SSE 串流。
// 所有狀態查詢都走引擎的序列化事件迴圈，API 自己不持有拍賣狀態。
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"gavel/adapters/broadcast"
	"gavel/engine"
	"gavel/models"
	"gavel/storage"
)

type serverOptions struct {
	logger *slog.Logger
	store  *storage.Store
}

type Option func(*serverOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithStore 設置成交紀錄的查詢來源，未設置時 /api/teams/:name 回 404
func WithStore(store *storage.Store) Option {
	return func(o *serverOptions) {
		o.store = store
	}
}

type ServerImpl struct {
	engine *engine.Engine
	hub    broadcast.IHub[string]
	logger *slog.Logger

	options serverOptions
}

func NewServer(eng *engine.Engine, hub broadcast.IHub[string], opts ...Option) (*ServerImpl, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	// 默認選項
	options := serverOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &ServerImpl{
		engine:  eng,
		hub:     hub,
		logger:  options.logger.With(slog.String("caller", "APIServer")),
		options: options,
	}, nil
}

// Router 組出觀察端路由
func (impl *ServerImpl) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	group := router.Group("/api")
	group.GET("/status", impl.GetStatus)
	group.GET("/teams", impl.GetTeams)
	group.GET("/teams/:name", impl.GetTeamAcquisitions)
	group.GET("/events", impl.GetEvents)
	return router
}

// GetStatus 回傳場次的一致快照
// (GET /api/status)
func (impl *ServerImpl) GetStatus(c *gin.Context) {
	const op = "GetStatus"
	snapshot, err := impl.engine.Snapshot(c.Request.Context())
	if err != nil {
		impl.logger.Error(fmt.Sprintf("[%s] Fail to take snapshot", op), slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "auction engine unavailable"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetTeams 回傳所有隊伍的帳本摘要
// (GET /api/teams)
func (impl *ServerImpl) GetTeams(c *gin.Context) {
	const op = "GetTeams"
	snapshot, err := impl.engine.Snapshot(c.Request.Context())
	if err != nil {
		impl.logger.Error(fmt.Sprintf("[%s] Fail to take snapshot", op), slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "auction engine unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": snapshot.Teams})
}

type acquisitionView struct {
	Player      string `json:"player"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	Price       string `json:"price"`
}

// GetTeamAcquisitions 回傳單一隊伍已入庫的成交紀錄
// (GET /api/teams/{name})
func (impl *ServerImpl) GetTeamAcquisitions(c *gin.Context) {
	const op = "GetTeamAcquisitions"
	if impl.options.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "acquisition history is not available"})
		return
	}
	records, err := impl.options.store.TeamAcquisitions(c.Request.Context(), c.Param("name"))
	if err != nil {
		impl.logger.Error(fmt.Sprintf("[%s] Fail to load acquisitions", op), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "fail to load acquisitions"})
		return
	}
	views := lo.Map(records, func(record models.Acquisition, _ int) acquisitionView {
		return acquisitionView{
			Player:      record.Player.Name,
			Role:        record.Player.Role,
			Nationality: record.Player.Nationality,
			Price:       record.Price.StringFixed(2),
		}
	})
	c.JSON(http.StatusOK, gin.H{"team": c.Param("name"), "acquisitions": views})
}

// GetEvents 以 SSE 串流轉播拍賣的廣播訊息
// (GET /api/events)
func (impl *ServerImpl) GetEvents(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Transfer-Encoding", "chunked")

	ch := impl.hub.Observe()
	defer impl.hub.Unobserve(ch)
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case message, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("message", message)
			w.Flush()
		// 30秒沒有事件就發送一個空行，確保瀏覽器和代理不會斷開連線
		case <-time.After(30 * time.Second):
			w.WriteString("\n\n")
			w.Flush()
		}
	}
}
