package timeunit

import (
	"testing"
	"time"
)

func TestAdjustLeftRight(t *testing.T) {
	at := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		name      string
		unit      TimeUnit
		wantLeft  time.Time
		wantRight time.Time
		wantJump  time.Time
	}{
		{
			name:      "hour",
			unit:      Hour,
			wantLeft:  time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC),
			wantRight: time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC),
			wantJump:  time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC),
		},
		{
			name:      "day",
			unit:      Day,
			wantLeft:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			wantRight: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
			wantJump:  time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week",
			unit:      Week,
			wantLeft:  time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
			wantRight: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			wantJump:  time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month",
			unit:      Month,
			wantLeft:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantRight: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			wantJump:  time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.AdjustLeft(at); !got.Equal(tt.wantLeft) {
				t.Errorf("AdjustLeft = %v, want %v", got, tt.wantLeft)
			}
			if got := tt.unit.AdjustRight(at); !got.Equal(tt.wantRight) {
				t.Errorf("AdjustRight = %v, want %v", got, tt.wantRight)
			}
			if got := tt.unit.JumpLeft(at); !got.Equal(tt.wantJump) {
				t.Errorf("JumpLeft = %v, want %v", got, tt.wantJump)
			}

			// Tiling: the unit containing `at` is [left, right)
			left := tt.unit.AdjustLeft(at)
			if left.After(at) || !tt.unit.AdjustRight(left).After(at) {
				t.Errorf("unit [%v, %v) does not contain %v", left, tt.unit.AdjustRight(left), at)
			}
			if got := tt.unit.AdjustRight(tt.unit.JumpLeft(left)); !got.Equal(left) {
				t.Errorf("AdjustRight(JumpLeft(left)) = %v, want %v", got, left)
			}
		})
	}
}

func TestAdjustLeftIsIdempotent(t *testing.T) {
	at := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	for _, unit := range []TimeUnit{Hour, Day, Week, Month} {
		left := unit.AdjustLeft(at)
		if again := unit.AdjustLeft(left); !again.Equal(left) {
			t.Errorf("%s: AdjustLeft(AdjustLeft(x)) = %v, want %v", unit.Name(), again, left)
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    TimeUnit
		wantErr bool
	}{
		{"hour", Hour, false},
		{"Day", Day, false},
		{"", Day, false},
		{"weeks", Week, false},
		{"month", Month, false},
		{"fortnight", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ByName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		unit TimeUnit
		from time.Time
		to   time.Time
		want int
	}{
		{"three days", Day, monday, monday.AddDate(0, 0, 3), 3},
		{"partial day counts whole", Day, monday, monday.Add(30 * time.Hour), 2},
		{"empty range", Day, monday, monday, 0},
		{"inverted range", Day, monday, monday.AddDate(0, 0, -1), 0},
		{"hours in a day", Hour, monday, monday.AddDate(0, 0, 1), 24},
		{"two weeks", Week, monday, monday.AddDate(0, 0, 14), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.unit, tt.from, tt.to); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHour_DaylightSavingTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// 2025-11-02 01:00-02:00 happens twice in New York
	fallBack := time.Date(2025, 11, 2, 0, 0, 0, 0, ny)
	for i := 0; i < 4; i++ {
		at := fallBack.Add(time.Duration(i)*time.Hour + 30*time.Minute)
		left := Hour.AdjustLeft(at)
		right := Hour.AdjustRight(left)

		if left.After(at) || !right.After(at) {
			t.Errorf("unit [%v, %v) does not contain %v", left, right, at)
		}
		if got := right.Sub(left); got != time.Hour {
			t.Errorf("unit containing %v lasts %v, want 1h", at, got)
		}
		if got := Hour.AdjustRight(Hour.JumpLeft(left)); !got.Equal(left) {
			t.Errorf("AdjustRight(JumpLeft(%v)) = %v, want %v", left, got, left)
		}
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"fall back", fallBack, fallBack.Add(4 * time.Hour), 4},
		{"spring forward", time.Date(2025, 3, 9, 0, 0, 0, 0, ny), time.Date(2025, 3, 9, 4, 0, 0, 0, ny), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(Hour, tt.from, tt.to); got != tt.want {
				t.Errorf("Count(Hour, %v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
