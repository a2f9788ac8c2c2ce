package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyAllows(t *testing.T) {
	policy := Policy{MaxRoster: 3, MaxRestricted: 1}
	restricted := &Item{Name: "M Starc", Nationality: "Australian", Restricted: true}
	home := &Item{Name: "V Kohli", Nationality: "Indian"}

	tests := []struct {
		name    string
		team    *Team
		item    *Item
		wantErr error
	}{
		{
			name: "fresh team may bid on anything",
			team: &Team{Name: "Mumbai"},
			item: restricted,
		},
		{
			name:    "roster cap blocks all items",
			team:    &Team{Name: "Mumbai", RosterCount: 3},
			item:    home,
			wantErr: ErrRosterCap,
		},
		{
			name:    "restricted cap blocks restricted items",
			team:    &Team{Name: "Mumbai", RosterCount: 1, RestrictedCount: 1},
			item:    restricted,
			wantErr: ErrRestrictedCap,
		},
		{
			name: "restricted cap does not block home items",
			team: &Team{Name: "Mumbai", RosterCount: 1, RestrictedCount: 1},
			item: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Allows(tt.team, tt.item)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
