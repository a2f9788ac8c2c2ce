// Package engine 實作拍賣協調引擎：場次階段的狀態機、最高出價仲裁、
// 逾時升級、法定票數提前結標以及各隊伍的帳本限制。
//
// 引擎把所有改變狀態的輸入化為事件，由單一 goroutine 依入佇順序逐一套用，
// 任何時刻只有一條邏輯執行緒在改動場次狀態。計時器到期、出價、投票之間的
// 競爭一律由佇列順序決定勝負，輸家看到的是已更新的階段，按階段守衛被拒絕。
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallnest/chanx"

	"gavel/adapters/audit"
	"gavel/models"
	"gavel/protocol"
)

// Bus 是引擎對外的廣播匯流排：點對點回覆與全場廣播
type Bus interface {
	SendTo(id uuid.UUID, message string) bool
	Broadcast(message string)
}

// SettlementStore 是結算持久化的協作者。
// 引擎以 fire-and-forget 呼叫，寫入失敗不會阻止場次前進。
type SettlementStore interface {
	MarkPlayerStatus(ctx context.Context, playerID uuid.UUID, status string) error
	RecordAcquisition(ctx context.Context, playerID uuid.UUID, teamName string, price decimal.Decimal) error
}

// Reporter 在場次結束時接收拍賣總結報告
type Reporter interface {
	UploadReport(ctx context.Context, report string) (string, error)
}

// Config 是一場拍賣的行為參數
type Config struct {
	BiddingTimeout      time.Duration
	FinalizationTimeout time.Duration
	StartDelay          time.Duration
	NextItemDelay       time.Duration
	TeardownDelay       time.Duration
	EmptyTeardownDelay  time.Duration
	InitialPurse        decimal.Decimal
	MinIncrement        decimal.Decimal
	MaxRoster           int
	MaxRestricted       int
	QuorumFraction      float64
}

func (c Config) withDefaults() Config {
	if c.BiddingTimeout <= 0 {
		c.BiddingTimeout = 30 * time.Second
	}
	if c.FinalizationTimeout <= 0 {
		c.FinalizationTimeout = 15 * time.Second
	}
	if c.StartDelay <= 0 {
		c.StartDelay = 2 * time.Second
	}
	if c.NextItemDelay <= 0 {
		c.NextItemDelay = 3 * time.Second
	}
	if c.TeardownDelay <= 0 {
		c.TeardownDelay = 30 * time.Second
	}
	if c.EmptyTeardownDelay <= 0 {
		c.EmptyTeardownDelay = 5 * time.Second
	}
	if c.InitialPurse.IsZero() {
		c.InitialPurse = decimal.NewFromInt(12000)
	}
	if c.MinIncrement.IsZero() {
		c.MinIncrement = decimal.NewFromInt(10)
	}
	if c.MaxRoster <= 0 {
		c.MaxRoster = 25
	}
	if c.MaxRestricted <= 0 {
		c.MaxRestricted = 8
	}
	if c.QuorumFraction <= 0 {
		c.QuorumFraction = 0.6
	}
	return c
}

type engineOptions struct {
	logger   *slog.Logger
	store    SettlementStore
	trail    audit.IProducer
	reporter Reporter
}

type Option func(*engineOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithStore 設置結算持久化協作者
func WithStore(store SettlementStore) Option {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithAuditTrail 設置稽核軌跡
func WithAuditTrail(trail audit.IProducer) Option {
	return func(o *engineOptions) {
		o.trail = trail
	}
}

// WithReporter 設置場次報告的接收者
func WithReporter(reporter Reporter) Option {
	return func(o *engineOptions) {
		o.reporter = reporter
	}
}

// Engine 是拍賣場次的狀態機。
// 場次狀態（階段、目前拍品、最高出價、準備集合、結標票集合、各隊帳本）
// 全部由事件迴圈獨占，其他元件只能透過 Submit 送事件進來。
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	bus      Bus
	store    SettlementStore
	trail    audit.IProducer
	reporter Reporter

	catalog *Catalog
	ledger  *Ledger
	arbiter *Arbiter
	policy  Policy
	timers  *timerController

	phase   Phase
	current *Item
	started bool
	conns   map[uuid.UUID]string // 連線 → 隊伍
	teams   map[string]uuid.UUID // 隊伍 → 連線
	ready   map[string]struct{}
	votes   map[string]struct{}

	queue      *chanx.UnboundedChan[Event]
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	persistWG  sync.WaitGroup
	stopped    atomic.Bool
	running    bool
	done       chan struct{}
	doneOnce   sync.Once
}

// New 建立拍賣引擎。目錄為空時無法成立場次，直接回傳錯誤。
func New(cfg Config, catalog *Catalog, bus Bus, opts ...Option) (*Engine, error) {
	const op = "engine.New"
	if bus == nil {
		return nil, fmt.Errorf("[%s] bus cannot be nil", op)
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("[%s] catalog is empty, cannot form a session", op)
	}

	options := engineOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:      cfg,
		logger:   options.logger.With(slog.String("caller", "Engine")),
		bus:      bus,
		store:    options.store,
		trail:    options.trail,
		reporter: options.reporter,
		catalog:  catalog,
		ledger:   NewLedger(cfg.InitialPurse),
		arbiter:  NewArbiter(cfg.MinIncrement),
		policy: Policy{
			MaxRoster:     cfg.MaxRoster,
			MaxRestricted: cfg.MaxRestricted,
		},
		phase: PhaseWaitingForTeams,
		conns: make(map[uuid.UUID]string),
		teams: make(map[string]uuid.UUID),
		ready: make(map[string]struct{}),
		votes: make(map[string]struct{}),
		done:  make(chan struct{}),
	}
	e.timers = newTimerController(e.Submit)
	return e, nil
}

// Start 啟動事件迴圈
func (e *Engine) Start() {
	if e.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.queue = chanx.NewUnboundedChan[Event](ctx, 64)
	e.cancelFunc = cancel
	e.running = true
	e.stopped.Store(false)
	e.logger.Info("starting auction engine", slog.Int("catalog", e.catalog.Len()))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.logger.Info("engine loop stopped")

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-e.queue.Out:
				e.handle(ev)
			}
		}
	}()
}

// Submit 將事件送入序列化佇列，永不阻塞；引擎關閉後的事件被靜默丟棄
func (e *Engine) Submit(ev Event) {
	if e.stopped.Load() {
		return
	}
	e.queue.In <- ev
}

// Done 在場次結束並度過緩衝期後關閉
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Close 停止事件迴圈並等待所有背景寫入完成
func (e *Engine) Close() {
	if !e.running {
		return
	}
	e.running = false
	e.stopped.Store(true)
	e.logger.Info("closing auction engine")
	e.cancelFunc()
	e.wg.Wait()
	e.timers.stopAll()
	e.persistWG.Wait()
	e.signalDone()
	e.logger.Info("auction engine closed")
}

// Snapshot 透過事件佇列讀取一致的場次快照
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	e.Submit(snapshotRequest{reply: reply})
	select {
	case snapshot := <-reply:
		return snapshot, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// handle 套用單一事件：讀取目前狀態、驗證、變更、排定副作用
func (e *Engine) handle(ev Event) {
	switch ev := ev.(type) {
	case LoginEvent:
		e.handleLogin(ev)
	case ReadyEvent:
		e.handleReady(ev)
	case BidEvent:
		e.handleBid(ev)
	case FinalizeEvent:
		e.handleFinalize(ev)
	case SummaryEvent:
		e.handleSummary(ev)
	case DisconnectEvent:
		e.handleDisconnect(ev)
	case timerFired:
		e.handleTimer(ev)
	case snapshotRequest:
		ev.reply <- e.buildSnapshot()
	}
}

func (e *Engine) handleLogin(ev LoginEvent) {
	if e.phase == PhaseFinished {
		e.bus.SendTo(ev.ConnID, protocol.LoginRejected("Auction already finished"))
		return
	}
	if _, ok := e.conns[ev.ConnID]; ok {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Already logged in"))
		return
	}
	if _, err := e.ledger.Register(ev.Team); err != nil {
		e.bus.SendTo(ev.ConnID, protocol.LoginRejected("Team name already exists"))
		return
	}
	e.conns[ev.ConnID] = ev.Team
	e.teams[ev.Team] = ev.ConnID

	e.bus.SendTo(ev.ConnID, protocol.LoginSuccess(ev.Team))
	e.bus.Broadcast(protocol.TeamJoined(ev.Team))
	e.logger.Info("Team joined", slog.String("team", ev.Team), slog.Int("teams", e.ledger.Count()))

	if e.phase == PhaseWaitingForTeams && e.ledger.Count() >= 2 {
		e.phase = PhaseWaitingForReady
	}
	e.maybeStart()
}

func (e *Engine) handleReady(ev ReadyEvent) {
	team, ok := e.conns[ev.ConnID]
	if !ok {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Login required"))
		return
	}
	if e.phase >= PhaseBidding {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Auction already started"))
		return
	}
	// 重複宣告準備是冪等的
	if _, dup := e.ready[team]; !dup {
		e.ready[team] = struct{}{}
		e.bus.Broadcast(protocol.TeamReady(team))
		e.logger.Info("Team ready", slog.String("team", team), slog.Int("ready", len(e.ready)), slog.Int("teams", e.ledger.Count()))
	}
	e.maybeStart()
}

// maybeStart 在每次 ready 或成員變動後重新評估開場條件：
// 至少兩支隊伍，且準備集合等於全部已登記隊伍
func (e *Engine) maybeStart() {
	if e.phase != PhaseWaitingForReady {
		return
	}
	if e.ledger.Count() < 2 || len(e.ready) != e.ledger.Count() {
		return
	}
	e.started = true
	e.phase = PhaseBidding
	clear(e.ready)
	e.bus.Broadcast(protocol.AuctionStarted())
	e.logger.Info("Starting auction", slog.Int("teams", e.ledger.Count()))
	e.timers.arm(timerAdvance, e.cfg.StartDelay)
}

func (e *Engine) handleBid(ev BidEvent) {
	teamName, ok := e.conns[ev.ConnID]
	if !ok {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Login required"))
		return
	}
	if e.phase != PhaseBidding || e.current == nil {
		e.bus.SendTo(ev.ConnID, protocol.BidRejected("Auction not active"))
		return
	}
	team, _ := e.ledger.Get(teamName)

	err := e.arbiter.Propose(team, e.current, ev.Amount, e.policy)
	switch {
	case err == nil:
	case errors.Is(err, ErrBidTooLow):
		e.bus.SendTo(ev.ConnID, protocol.BidRejectedTooLow(e.arbiter.Minimum()))
		return
	case errors.Is(err, ErrInsufficientFunds):
		e.bus.SendTo(ev.ConnID, protocol.BidRejectedInsufficientFunds(team.Budget))
		return
	case errors.Is(err, ErrRosterCap):
		e.bus.SendTo(ev.ConnID, protocol.BidRejected(fmt.Sprintf("Maximum player limit reached (%d)", e.policy.MaxRoster)))
		return
	case errors.Is(err, ErrRestrictedCap):
		e.bus.SendTo(ev.ConnID, protocol.BidRejected(fmt.Sprintf("Maximum overseas player limit reached (%d)", e.policy.MaxRestricted)))
		return
	default:
		e.bus.SendTo(ev.ConnID, protocol.BidRejected("Auction not active"))
		return
	}

	// 出價被接受：重設競價計時器並廣播
	e.timers.arm(timerBidding, e.cfg.BiddingTimeout)
	e.bus.Broadcast(protocol.NewBid(teamName, ev.Amount))
	e.logger.Info("New bid",
		slog.String("team", teamName),
		slog.String("amount", ev.Amount.StringFixed(2)),
		slog.String("player", e.current.Name))
	e.publishAudit(audit.Entry{
		Action: audit.ActionBid,
		Player: e.current.Name,
		Team:   teamName,
		Amount: ev.Amount.StringFixed(2),
		Time:   time.Now(),
	})
}

func (e *Engine) handleFinalize(ev FinalizeEvent) {
	team, ok := e.conns[ev.ConnID]
	if !ok {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Login required"))
		return
	}
	if (e.phase != PhaseBidding && e.phase != PhaseFinalizing) || e.current == nil {
		e.bus.SendTo(ev.ConnID, protocol.FinalizeRejected("No active auction"))
		return
	}
	e.votes[team] = struct{}{}
	e.logger.Info("Finalization vote",
		slog.String("team", team),
		slog.Int("votes", len(e.votes)),
		slog.Int("teams", e.ledger.Count()))

	if len(e.votes) >= e.quorum() {
		e.resolveCurrent()
		return
	}
	e.bus.Broadcast(protocol.FinalizationProgress(len(e.votes), e.ledger.Count()))
}

func (e *Engine) handleSummary(ev SummaryEvent) {
	teamName, ok := e.conns[ev.ConnID]
	if !ok {
		e.bus.SendTo(ev.ConnID, protocol.ErrorMessage("Login required"))
		return
	}
	team, _ := e.ledger.Get(teamName)
	e.bus.SendTo(ev.ConnID, e.buildTeamSummary(team))
}

func (e *Engine) handleDisconnect(ev DisconnectEvent) {
	team, ok := e.conns[ev.ConnID]
	delete(e.conns, ev.ConnID)
	if !ok {
		return
	}
	delete(e.teams, team)
	e.ledger.Deregister(team)
	delete(e.ready, team)
	delete(e.votes, team)

	e.bus.Broadcast(protocol.TeamLeft(team))
	e.logger.Info("Team disconnected", slog.String("team", team), slog.Int("teams", e.ledger.Count()))

	if e.phase == PhaseFinished {
		return
	}
	// 場次開始後全員離線就無法繼續，排定提前收場
	if e.started && e.ledger.Count() == 0 {
		e.logger.Info("All teams disconnected, tearing down session")
		e.phase = PhaseFinished
		e.timers.cancel(timerBidding)
		e.timers.cancel(timerFinalization)
		e.timers.cancel(timerAdvance)
		e.timers.arm(timerTeardown, e.cfg.EmptyTeardownDelay)
		return
	}
	if e.phase == PhaseWaitingForReady {
		e.maybeStart()
		return
	}
	// 成員減少會降低法定票數門檻，離隊後重新檢查
	if (e.phase == PhaseBidding || e.phase == PhaseFinalizing) && e.current != nil &&
		len(e.votes) > 0 && len(e.votes) >= e.quorum() {
		e.resolveCurrent()
	}
}

func (e *Engine) handleTimer(ev timerFired) {
	if !e.timers.live(ev) {
		e.logger.Debug("stale timer discarded", slog.String("kind", ev.kind.String()))
		return
	}
	switch ev.kind {
	case timerBidding:
		if e.phase != PhaseBidding || e.current == nil {
			return
		}
		e.logger.Info("Bidding timeout reached", slog.String("player", e.current.Name))
		e.bus.Broadcast(protocol.BiddingTimeout())
		e.phase = PhaseFinalizing
		e.timers.arm(timerFinalization, e.cfg.FinalizationTimeout)
	case timerFinalization:
		if e.phase != PhaseFinalizing || e.current == nil {
			return
		}
		e.logger.Info("Finalization timeout reached", slog.String("player", e.current.Name))
		e.bus.Broadcast(protocol.FinalizationTimeout())
		e.resolveCurrent()
	case timerAdvance:
		if e.phase == PhaseItemResolving || (e.phase == PhaseBidding && e.current == nil) {
			e.drawNext()
		}
	case timerTeardown:
		e.signalDone()
	}
}

// quorum 回傳提前結標所需的票數，依目前的隊伍數計算
func (e *Engine) quorum() int {
	return int(math.Ceil(float64(e.ledger.Count()) * e.cfg.QuorumFraction))
}

// resolveCurrent 將目前拍品結算為 Sold 或 Unsold。
// 每件拍品恰好結算一次；結算後經過緩衝延遲才抽出下一件。
func (e *Engine) resolveCurrent() {
	e.phase = PhaseItemResolving
	e.timers.cancel(timerBidding)
	e.timers.cancel(timerFinalization)

	item := e.current
	e.current = nil
	clear(e.votes)

	bidder, price := e.arbiter.CloseOut()
	if bidder == "" {
		if err := item.Resolve(models.PlayerStatusUnsold); err != nil {
			e.logger.Error("Fail to resolve item", slog.String("player", item.Name), slog.Any("error", err))
			return
		}
		e.persistStatus(item, models.PlayerStatusUnsold)
		e.bus.Broadcast(protocol.PlayerUnsold(item.Name))
		e.logger.Info("Player unsold", slog.String("player", item.Name))
		e.publishAudit(audit.Entry{Action: audit.ActionUnsold, Player: item.Name, Time: time.Now()})
	} else {
		if err := item.Resolve(models.PlayerStatusSold); err != nil {
			e.logger.Error("Fail to resolve item", slog.String("player", item.Name), slog.Any("error", err))
			return
		}
		// 得標隊伍若已離線，帳本沒有項目可結算，
		// 成交仍以其名義記入外部持久層
		remaining := decimal.Zero
		if team, err := e.ledger.Settle(bidder, item, price); err == nil {
			remaining = team.Budget
		} else {
			e.logger.Warn("Winning team left before settlement",
				slog.String("team", bidder), slog.Any("error", err))
		}
		e.persistStatus(item, models.PlayerStatusSold)
		e.persistAcquisition(item, bidder, price)
		e.bus.Broadcast(protocol.PlayerSold(bidder, price, remaining))
		e.logger.Info("Player sold",
			slog.String("player", item.Name),
			slog.String("team", bidder),
			slog.String("price", price.StringFixed(2)))
		e.publishAudit(audit.Entry{
			Action: audit.ActionSold,
			Player: item.Name,
			Team:   bidder,
			Amount: price.StringFixed(2),
			Time:   time.Now(),
		})
	}

	e.timers.arm(timerAdvance, e.cfg.NextItemDelay)
}

// drawNext 抽出下一件拍品並開盤；目錄耗盡時結束場次
func (e *Engine) drawNext() {
	if e.phase == PhaseFinished {
		return
	}
	clear(e.votes)
	item := e.catalog.Next()
	if item == nil {
		e.finishAuction()
		return
	}
	e.current = item
	e.arbiter.Open(item.BasePrice)
	e.phase = PhaseBidding
	e.bus.Broadcast(protocol.NewPlayer(item.Name, item.BasePrice, item.Role, item.Nationality))
	e.logger.Info("Started bidding",
		slog.String("player", item.Name),
		slog.String("base", item.BasePrice.StringFixed(2)),
		slog.Int("remaining", e.catalog.Remaining()))
	e.timers.arm(timerBidding, e.cfg.BiddingTimeout)
}

func (e *Engine) finishAuction() {
	e.phase = PhaseFinished
	e.current = nil
	e.bus.Broadcast(protocol.AuctionFinished())
	e.logger.Info("Auction completed")

	report := e.buildReport()
	e.logger.Info("Auction summary\n" + report)
	if e.reporter != nil {
		e.persistWG.Add(1)
		go func() {
			defer e.persistWG.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			url, err := e.reporter.UploadReport(ctx, report)
			if err != nil {
				e.logger.Error("Fail to upload auction report", slog.Any("error", err))
				return
			}
			e.logger.Info("Auction report uploaded", slog.String("url", url))
		}()
	}

	e.timers.arm(timerTeardown, e.cfg.TeardownDelay)
}

func (e *Engine) signalDone() {
	e.doneOnce.Do(func() {
		close(e.done)
	})
}

func (e *Engine) persistStatus(item *Item, status string) {
	if e.store == nil {
		return
	}
	e.persistWG.Add(1)
	go func() {
		defer e.persistWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.MarkPlayerStatus(ctx, item.ID, status); err != nil {
			e.logger.Error("Fail to persist player status",
				slog.String("player", item.Name), slog.Any("error", err))
		}
	}()
}

func (e *Engine) persistAcquisition(item *Item, teamName string, price decimal.Decimal) {
	if e.store == nil {
		return
	}
	e.persistWG.Add(1)
	go func() {
		defer e.persistWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.RecordAcquisition(ctx, item.ID, teamName, price); err != nil {
			e.logger.Error("Fail to persist acquisition",
				slog.String("player", item.Name),
				slog.String("team", teamName),
				slog.Any("error", err))
		}
	}()
}

func (e *Engine) publishAudit(entry audit.Entry) {
	if e.trail == nil {
		return
	}
	if err := e.trail.Publish(entry); err != nil {
		e.logger.Warn("Fail to publish audit entry", slog.Any("error", err))
	}
}
