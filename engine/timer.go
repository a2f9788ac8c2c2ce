package engine

import "time"

type timerKind int

const (
	timerBidding timerKind = iota
	timerFinalization
	timerAdvance
	timerTeardown
	timerKindCount
)

func (k timerKind) String() string {
	switch k {
	case timerBidding:
		return "bidding"
	case timerFinalization:
		return "finalization"
	case timerAdvance:
		return "advance"
	case timerTeardown:
		return "teardown"
	}
	return "unknown"
}

// timerController 管理引擎的單次計時器。
// arm/cancel/live 只會在引擎的事件迴圈內被呼叫；
// 計時器回呼只把 timerFired 事件送回佇列，不直接改動任何狀態。
// 每次 arm 或 cancel 都會遞增該類計時器的 epoch，
// 帶著過期 epoch 的 timerFired 會被迴圈丟棄，
// 因此「先取消再重設」在引擎看來是同一個序列化步驟內的原子操作。
type timerController struct {
	submit func(Event)
	epochs [timerKindCount]uint64
	timers [timerKindCount]*time.Timer
}

func newTimerController(submit func(Event)) *timerController {
	return &timerController{submit: submit}
}

// arm 重設某類計時器，原有的同類計時器即刻失效
func (t *timerController) arm(kind timerKind, d time.Duration) {
	t.epochs[kind]++
	if t.timers[kind] != nil {
		t.timers[kind].Stop()
	}
	epoch := t.epochs[kind]
	t.timers[kind] = time.AfterFunc(d, func() {
		t.submit(timerFired{kind: kind, epoch: epoch})
	})
}

// cancel 使某類計時器失效；已經送入佇列的到期事件會因 epoch 過期被丟棄
func (t *timerController) cancel(kind timerKind) {
	t.epochs[kind]++
	if t.timers[kind] != nil {
		t.timers[kind].Stop()
		t.timers[kind] = nil
	}
}

// live 判斷到期事件是否仍然有效
func (t *timerController) live(ev timerFired) bool {
	return ev.epoch == t.epochs[ev.kind]
}

// stopAll 停掉所有計時器，關閉引擎時使用
func (t *timerController) stopAll() {
	for kind := timerKind(0); kind < timerKindCount; kind++ {
		t.cancel(kind)
	}
}
