// Package schedule turns a chosen lead time into calendar dates and the
// express surcharge percentage. A business day is Monday through Friday;
// public holidays are deliberately not modeled.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

// BaselineWorkingDays is the standard lead time. Any shorter chosen lead
// time, express or not, is surcharged proportionally to the days saved.
const BaselineWorkingDays = 10

// Delay is the client's chosen lead time.
type Delay struct {
	Type        enums.DelayType
	WorkingDays int
	// ExpressDays may be fractional: 0.5 means same-day/24h delivery. Only
	// meaningful when Type is express.
	ExpressDays decimal.Decimal
}

// IsExpress reports whether the express path was chosen.
func (d Delay) IsExpress() bool {
	return d.Type == enums.DelayTypeExpress
}

// ChosenDays returns the effective lead time in days, fractional for express.
func (d Delay) ChosenDays() decimal.Decimal {
	if d.IsExpress() {
		return d.ExpressDays
	}
	return decimal.NewFromInt(int64(d.WorkingDays))
}

// IndicationDate returns now advanced to the next business day. Quotes are
// not issued on weekends.
func IndicationDate(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for isWeekend(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// DeliveryDate advances from the indication date by the delay's working
// days, skipping weekends. Express delays add their (possibly fractional)
// day count as wall-clock time instead; sub-day express windows are a
// delivery promise, not a calendar computation, so weekend skipping does
// not apply to them.
func DeliveryDate(delay Delay, indication time.Time) time.Time {
	if delay.IsExpress() {
		hours := delay.ExpressDays.Mul(decimal.NewFromInt(24))
		return indication.Add(time.Duration(hours.InexactFloat64() * float64(time.Hour)))
	}

	day := indication
	for remaining := delay.WorkingDays; remaining > 0; {
		day = day.AddDate(0, 0, 1)
		if !isWeekend(day) {
			remaining--
		}
	}
	return day
}

// ExpressSurchargePercent computes the surcharge for a lead time shorter
// than the baseline: perDay percent for every day saved, floored at zero so
// longer-than-baseline lead times are neither surcharged nor discounted.
// Continuous at chosen == baseline (exactly zero) and defined for
// fractional chosen days.
func ExpressSurchargePercent(perDay decimal.Decimal, chosenDays decimal.Decimal) decimal.Decimal {
	saved := decimal.NewFromInt(BaselineWorkingDays).Sub(chosenDays)
	if saved.Sign() <= 0 {
		return decimal.Zero
	}
	return perDay.Mul(saved)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
