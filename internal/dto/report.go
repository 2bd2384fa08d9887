package dto

import "time"

// ReportTotals are the headline metrics over the filtered row set.
type ReportTotals struct {
	Rows           int     `json:"rows"`
	HoursPresented float64 `json:"hours_presented"`
	HoursSold      float64 `json:"hours_sold"`
	ROs            int     `json:"ros"`
	HPPerRO        float64 `json:"hp_per_ro"`
	HSPerRO        float64 `json:"hs_per_ro"`
}

// AdvisorStats aggregates one canonical advisor. Two raw spellings that
// canonicalize identically report as one advisor here.
type AdvisorStats struct {
	Advisor        string  `json:"advisor"`
	HoursPresented float64 `json:"hours_presented"`
	HoursSold      float64 `json:"hours_sold"`
	ROs            int     `json:"ros"`
	HPPerRO        float64 `json:"hp_per_ro"`
	HSPerRO        float64 `json:"hs_per_ro"`
}

// WeeklyStats aggregates one calendar week (Monday start). Rows without an
// invoice date are excluded from the weekly breakdown.
type WeeklyStats struct {
	WeekStart      time.Time `json:"week_start"`
	HoursPresented float64   `json:"hours_presented"`
	HoursSold      float64   `json:"hours_sold"`
	ROs            int       `json:"ros"`
	HPPerRO        float64   `json:"hp_per_ro"`
	HSPerRO        float64   `json:"hs_per_ro"`
}

// ReportSummary is the full dashboard aggregate for a filtered row set.
type ReportSummary struct {
	Totals   ReportTotals   `json:"totals"`
	Advisors []AdvisorStats `json:"advisors"`
	Weekly   []WeeklyStats  `json:"weekly"`
}
