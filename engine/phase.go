package engine

// Phase 是拍賣場次的階段。
// 每個球員的生命週期為 Bidding → Finalizing → ItemResolving，
// 目錄耗盡後進入 Finished，Finished 之後不再接受任何改變狀態的事件。
type Phase int

const (
	PhaseWaitingForTeams Phase = iota
	PhaseWaitingForReady
	PhaseBidding
	PhaseFinalizing
	PhaseItemResolving
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForTeams:
		return "WaitingForTeams"
	case PhaseWaitingForReady:
		return "WaitingForReady"
	case PhaseBidding:
		return "Bidding"
	case PhaseFinalizing:
		return "Finalizing"
	case PhaseItemResolving:
		return "ItemResolving"
	case PhaseFinished:
		return "Finished"
	}
	return "Unknown"
}
