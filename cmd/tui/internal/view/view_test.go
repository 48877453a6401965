package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRange(t *testing.T) {
	wednesday := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		now       time.Time
		wantStart string
		wantEnd   string
	}

	tests := []testCase{
		{name: "ThisWeek", tf: TimeframeThisWeek, now: wednesday, wantStart: "2026-10-12", wantEnd: "2026-10-14"},
		{name: "ThisWeekOnSunday", tf: TimeframeThisWeek, now: sunday, wantStart: "2026-10-12", wantEnd: "2026-10-18"},
		{name: "LastWeek", tf: TimeframeLastWeek, now: wednesday, wantStart: "2026-10-05", wantEnd: "2026-10-11"},
		{name: "ThisMonth", tf: TimeframeThisMonth, now: wednesday, wantStart: "2026-10-01", wantEnd: "2026-10-14"},
		{name: "LastMonth", tf: TimeframeLastMonth, now: wednesday, wantStart: "2026-09-01", wantEnd: "2026-09-30"},
		{name: "All", tf: TimeframeAll, now: wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DateRange(tt.tf, tt.now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestSplitCells(t *testing.T) {
	type testCase struct {
		name      string
		cashShare int
		width     int
		wantCash  int
		wantBank  int
	}

	tests := []testCase{
		{name: "Rounded", cashShare: 33, width: 20, wantCash: 7, wantBank: 13},
		{name: "Even", cashShare: 50, width: 10, wantCash: 5, wantBank: 5},
		{name: "AllCash", cashShare: 100, width: 20, wantCash: 20},
		{name: "AllBank", cashShare: 0, width: 20, wantBank: 20},
		{name: "NegativeClamped", cashShare: -40, width: 10, wantBank: 10},
		{name: "OverflowClamped", cashShare: 140, width: 10, wantCash: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cash, bank := splitCells(tt.cashShare, tt.width)
			assert.Equal(t, tt.wantCash, cash)
			assert.Equal(t, tt.wantBank, bank)
		})
	}
}
