package engine

// ItemView 是快照中的拍品資訊
type ItemView struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	BasePrice   string `json:"basePrice"`
	Restricted  bool   `json:"restricted"`
}

// TeamView 是快照中的隊伍帳本摘要
type TeamView struct {
	Name            string `json:"name"`
	Budget          string `json:"budget"`
	RosterCount     int    `json:"rosterCount"`
	RestrictedCount int    `json:"restrictedCount"`
	Ready           bool   `json:"ready"`
	VotedFinalize   bool   `json:"votedFinalize"`
}

// Snapshot 是觀察端看到的一致場次快照，
// 由事件迴圈在單一序列化步驟內組出
type Snapshot struct {
	Phase          string     `json:"phase"`
	Teams          []TeamView `json:"teams"`
	CurrentItem    *ItemView  `json:"currentItem,omitempty"`
	HighestBidder  string     `json:"highestBidder,omitempty"`
	HighestBid     string     `json:"highestBid,omitempty"`
	Votes          int        `json:"votes"`
	Quorum         int        `json:"quorum"`
	ItemsRemaining int        `json:"itemsRemaining"`
}

func (e *Engine) buildSnapshot() Snapshot {
	snapshot := Snapshot{
		Phase:          e.phase.String(),
		Votes:          len(e.votes),
		Quorum:         e.quorum(),
		ItemsRemaining: e.catalog.Remaining(),
	}
	for _, name := range e.ledger.Names() {
		team, _ := e.ledger.Get(name)
		_, ready := e.ready[name]
		_, voted := e.votes[name]
		snapshot.Teams = append(snapshot.Teams, TeamView{
			Name:            team.Name,
			Budget:          team.Budget.StringFixed(2),
			RosterCount:     team.RosterCount,
			RestrictedCount: team.RestrictedCount,
			Ready:           ready,
			VotedFinalize:   voted,
		})
	}
	if e.current != nil {
		snapshot.CurrentItem = &ItemView{
			Name:        e.current.Name,
			Role:        e.current.Role,
			Nationality: e.current.Nationality,
			BasePrice:   e.current.BasePrice.StringFixed(2),
			Restricted:  e.current.Restricted,
		}
		bidder, bid := e.arbiter.Current()
		snapshot.HighestBidder = bidder
		snapshot.HighestBid = bid.StringFixed(2)
	}
	return snapshot
}
