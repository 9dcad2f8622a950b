package types

import (
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func TestPeriodEnd_Calendar(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		unit    BillingPeriodUnit
		value   int
		want    time.Time
		wantErr bool
	}{
		{
			name:  "one month mid month",
			start: time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
			unit:  BillingPeriodUnitMonth,
			value: 1,
			want:  time.Date(2024, time.April, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "jan 31 plus one month clamps to leap february",
			start: time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitMonth,
			value: 1,
			want:  time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "jan 31 plus one month clamps to february",
			start: time.Date(2023, time.January, 31, 12, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitMonth,
			value: 1,
			want:  time.Date(2023, time.February, 28, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "jan 31 plus two months lands on march 31",
			start: time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitMonth,
			value: 2,
			want:  time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "crosses year boundary",
			start: time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitMonth,
			value: 3,
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "one year",
			start: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitYear,
			value: 1,
			want:  time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day plus one year",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			unit:  BillingPeriodUnitYear,
			value: 1,
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "keeps location",
			start: time.Date(2024, time.January, 31, 23, 0, 0, 0, ist),
			unit:  BillingPeriodUnitMonth,
			value: 1,
			want:  time.Date(2024, time.February, 29, 23, 0, 0, 0, ist),
		},
		{
			name:    "zero value",
			start:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			unit:    BillingPeriodUnitMonth,
			value:   0,
			wantErr: true,
		},
		{
			name:    "unknown unit",
			start:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			unit:    BillingPeriodUnit("week"),
			value:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodEnd(tt.start, tt.unit, tt.value, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PeriodEnd() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("PeriodEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeriodEnd_Accelerated(t *testing.T) {
	start := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		unit  BillingPeriodUnit
		value int
		want  time.Duration
	}{
		{name: "one month is one minute", unit: BillingPeriodUnitMonth, value: 1, want: time.Minute},
		{name: "six months", unit: BillingPeriodUnitMonth, value: 6, want: 6 * time.Minute},
		{name: "one year is five minutes", unit: BillingPeriodUnitYear, value: 1, want: 5 * time.Minute},
		{name: "three years", unit: BillingPeriodUnitYear, value: 3, want: 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodEnd(start, tt.unit, tt.value, true)
			if err != nil {
				t.Fatalf("PeriodEnd() unexpected error: %v", err)
			}
			if d := got.Sub(start); d != tt.want {
				t.Errorf("PeriodEnd() advanced %v, want %v", d, tt.want)
			}
		})
	}
}
