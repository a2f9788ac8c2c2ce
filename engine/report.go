package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// buildTeamSummary 組出單一隊伍的名冊摘要，回應 DISPLAY_TEAMS 請求
func (e *Engine) buildTeamSummary(team *Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== TEAM %s ===\n", strings.ToUpper(team.Name))

	totalSpent := decimal.Zero
	for _, item := range team.Acquisitions {
		fmt.Fprintf(&b, "%s (%s, %s) - Base: %s, Bought: %s\n",
			item.Name, item.Role, item.Nationality,
			item.BasePrice.StringFixed(2), item.Price.StringFixed(2))
		totalSpent = totalSpent.Add(item.Price)
	}

	fmt.Fprintf(&b, "\nTotal Players: %d\n", len(team.Acquisitions))
	fmt.Fprintf(&b, "Total Spent: %s\n", totalSpent.StringFixed(2))
	fmt.Fprintf(&b, "Remaining Purse: %s", team.Budget.StringFixed(2))
	return b.String()
}

// buildReport 組出場次結束時的拍賣總結
func (e *Engine) buildReport() string {
	var b strings.Builder
	b.WriteString("=== AUCTION SUMMARY ===\n")

	for _, name := range e.ledger.Names() {
		team, _ := e.ledger.Get(name)
		spent := decimal.Zero
		for _, item := range team.Acquisitions {
			spent = spent.Add(item.Price)
		}
		fmt.Fprintf(&b, "%s: %d players, %s spent, %s remaining\n",
			team.Name, team.RosterCount, spent.StringFixed(2), team.Budget.StringFixed(2))
	}

	fmt.Fprintf(&b, "Unsold players: %d", e.catalog.Unsold())
	return b.String()
}
