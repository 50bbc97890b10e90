package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/cmd/tui/internal/view"
)

func TestTimeframe_Range(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	type testCase struct {
		name      string
		timeframe view.Timeframe
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}

	tests := []testCase{
		{name: "today", timeframe: view.TimeframeToday, wantStart: day(2026, 3, 15), wantEnd: day(2026, 3, 16), wantOK: true},
		{name: "this month", timeframe: view.TimeframeThisMonth, wantStart: day(2026, 3, 1), wantEnd: day(2026, 4, 1), wantOK: true},
		{name: "last month", timeframe: view.TimeframeLastMonth, wantStart: day(2026, 2, 1), wantEnd: day(2026, 3, 1), wantOK: true},
		{name: "this year", timeframe: view.TimeframeThisYear, wantStart: day(2026, 1, 1), wantEnd: day(2027, 1, 1), wantOK: true},
		{name: "all time", timeframe: view.TimeframeAll},
		{name: "custom", timeframe: view.TimeframeCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.timeframe.Range(now)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframe_FilterAll(t *testing.T) {
	f := view.TimeframeAll.Filter(time.Now())

	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}

func TestCustomFilter(t *testing.T) {
	type args struct {
		start string
		end   string
	}

	type testCase struct {
		name    string
		args    args
		wantEnd time.Time
		wantErr string
	}

	tests := []testCase{
		{
			name:    "end day is included",
			args:    args{start: "2026-01-01", end: "2026-01-31"},
			wantEnd: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "same day",
			args:    args{start: " 2026-01-05", end: "2026-01-05 "},
			wantEnd: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{name: "bad start", args: args{start: "01.01.2026", end: "2026-01-31"}, wantErr: "invalid start date"},
		{name: "bad end", args: args{start: "2026-01-01", end: ""}, wantErr: "invalid end date"},
		{name: "reversed", args: args{start: "2026-02-01", end: "2026-01-01"}, wantErr: "before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := view.CustomFilter(tt.args.start, tt.args.end, time.UTC)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, f.EndDate)
			assert.Equal(t, tt.wantEnd, *f.EndDate)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.50 €", view.FormatAmount(1250))
	assert.Equal(t, "-0.05 €", view.FormatAmount(-5))
	assert.Equal(t, "0.00 €", view.FormatAmount(0))
}
