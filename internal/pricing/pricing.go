// Package pricing derives the financial fields of a policy from its inputs.
// Both derivations are pure: the same inputs always produce the same outputs,
// so recomputation is safe at any point and in any order.
package pricing

import (
	"math"
	"time"
)

// PremiumRate is the flat monthly rate applied to the insured rent.
const PremiumRate = 0.03

// Risk multiplier brackets. Boundary scores take the lower multiplier: a score
// of exactly 50 prices at 1.0 and a score of exactly 75 prices at 0.8.
const (
	highRiskMultiplier     = 1.5
	standardRiskMultiplier = 1.0
	lowRiskMultiplier      = 0.8

	standardRiskThreshold = 50
	lowRiskThreshold      = 75
)

// RiskMultiplier maps a 0-100 risk score onto the premium multiplier step
// function: < 50 → 1.5, [50, 75) → 1.0, >= 75 → 0.8.
func RiskMultiplier(score float64) float64 {
	switch {
	case score < standardRiskThreshold:
		return highRiskMultiplier
	case score < lowRiskThreshold:
		return standardRiskMultiplier
	default:
		return lowRiskMultiplier
	}
}

// Premium computes the policy premium:
//
//	monthlyRent × PremiumRate × coverageMonths × RiskMultiplier(riskScore)
//
// rounded to the currency's minor unit (cents).
func Premium(monthlyRent float64, coverageMonths int, riskScore float64) float64 {
	raw := monthlyRent * PremiumRate * float64(coverageMonths) * RiskMultiplier(riskScore)
	return RoundToCents(raw)
}

// RoundToCents rounds half away from zero to two decimal places.
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CoverageEnd advances start by coverageMonths calendar months. When the start
// day does not exist in the target month the result clamps to the last day of
// that month: 2024-01-31 + 1 month is 2024-02-29, 2023-01-31 + 1 month is
// 2023-02-28, 2024-08-31 + 1 month is 2024-09-30. Clock and location are
// preserved.
func CoverageEnd(start time.Time, coverageMonths int) time.Time {
	year := start.Year()
	month := int(start.Month()) + coverageMonths

	// Normalize month overflow into years. Month is 1-based.
	year += (month - 1) / 12
	month = (month-1)%12 + 1

	day := start.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}

	h, m, s := start.Clock()
	return time.Date(year, time.Month(month), day, h, m, s, start.Nanosecond(), start.Location())
}

// daysInMonth returns the number of days in the given month. Day 0 of the
// following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
