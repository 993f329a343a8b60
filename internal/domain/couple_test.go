package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextCoupleState(t *testing.T) {
	tests := []struct {
		name       string
		current    CoupleStatus
		count      int
		maxMembers int
		want       CoupleState
	}{
		{"owner alone stays pending", CoupleStatusPending, 1, 2, CoupleState{Status: CoupleStatusPending}},
		{"partner joins pending", CoupleStatusPending, 2, 2, CoupleState{Status: CoupleStatusActive}},
		{"partner leaves active", CoupleStatusActive, 1, 2, CoupleState{Status: CoupleStatusDisconnected}},
		{"former member rejoins", CoupleStatusDisconnected, 2, 2, CoupleState{Status: CoupleStatusActive}},
		{"still disconnected", CoupleStatusDisconnected, 1, 2, CoupleState{Status: CoupleStatusDisconnected}},
		{"last member leaves", CoupleStatusDisconnected, 0, 2, CoupleState{Status: CoupleStatusDisconnected, Deleted: true}},
		{"owner cancels pending", CoupleStatusPending, 0, 2, CoupleState{Status: CoupleStatusPending, Deleted: true}},
		{"larger group not yet full", CoupleStatusPending, 2, 3, CoupleState{Status: CoupleStatusPending}},
		{"invalid max falls back to default", CoupleStatusPending, 2, 0, CoupleState{Status: CoupleStatusActive}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCoupleState(tt.current, tt.count, tt.maxMembers))
		})
	}
}

func TestCoupleInvite_RecordUse(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	inv := NewCoupleInvite("c1", "u1", "ABCD1234", now)

	assert.False(t, inv.Expired(now))
	inv.RecordUse(now)
	assert.Equal(t, InviteStatusConsumed, inv.Status)
	assert.Equal(t, &now, inv.ConsumedAt)
}
