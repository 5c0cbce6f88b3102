package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/growthops/adscope/internal/models"
)

// HourPerformance is one hour-of-day bucket aggregated across the range.
type HourPerformance struct {
	Hour        int     `json:"hour"`
	HourLabel   string  `json:"hour_label"`
	Clicks      int     `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
}

// DayPerformance is one day-of-week bucket aggregated across the range.
type DayPerformance struct {
	Day         string  `json:"day"`
	Clicks      int     `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
}

// TimeReport covers hour-of-day and day-of-week patterns.
type TimeReport struct {
	HourlyPerformance []HourPerformance `json:"hourly_performance"`
	DailyPerformance  []DayPerformance  `json:"daily_performance"`
	BestHour          *HourPerformance  `json:"best_hour"`
	WorstHours        []HourPerformance `json:"worst_hours"`
	BestDay           *DayPerformance   `json:"best_day"`
	WorstDays         []DayPerformance  `json:"worst_days"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TimePerformance aggregates hourly buckets into a 24-hour profile and daily
// buckets into a day-of-week profile. Best hour and day are picked by
// clicks; worst are any with spend but zero conversions.
func TimePerformance(hourly, daily []models.TimeSegment) TimeReport {
	type agg struct {
		clicks      int
		spend       float64
		conversions float64
	}

	hours := map[int]*agg{}
	for _, h := range hourly {
		a, ok := hours[h.Hour]
		if !ok {
			a = &agg{}
			hours[h.Hour] = a
		}
		a.clicks += h.Clicks
		a.spend += h.Spend
		a.conversions += h.Conversions
	}

	hourlyPerf := make([]HourPerformance, 0, 24)
	for hour := 0; hour < 24; hour++ {
		a := hours[hour]
		if a == nil {
			a = &agg{}
		}
		hourlyPerf = append(hourlyPerf, HourPerformance{
			Hour:        hour,
			HourLabel:   fmt.Sprintf("%02d:00", hour),
			Clicks:      a.clicks,
			Spend:       models.Round2(a.spend),
			Conversions: a.conversions,
			CPA:         models.Round2(models.SafeDiv(a.spend, a.conversions)),
		})
	}

	var bestHour *HourPerformance
	var worstHours []HourPerformance
	for i := range hourlyPerf {
		h := hourlyPerf[i]
		if bestHour == nil || h.Clicks > bestHour.Clicks {
			bestHour = &hourlyPerf[i]
		}
		if h.Spend > 0 && h.Conversions == 0 {
			worstHours = append(worstHours, h)
		}
	}

	days := map[string]*agg{}
	for _, d := range daily {
		dow := d.DayOfWeek
		if dow == "" && d.Date != "" {
			if t, err := time.Parse("2006-01-02", d.Date); err == nil {
				dow = t.Weekday().String()
			}
		}
		if dow == "" {
			continue
		}
		a, ok := days[dow]
		if !ok {
			a = &agg{}
			days[dow] = a
		}
		a.clicks += d.Clicks
		a.spend += d.Spend
		a.conversions += d.Conversions
	}

	dailyPerf := make([]DayPerformance, 0, 7)
	for _, dow := range weekdays {
		a := days[dow]
		if a == nil {
			a = &agg{}
		}
		dailyPerf = append(dailyPerf, DayPerformance{
			Day:         dow,
			Clicks:      a.clicks,
			Spend:       models.Round2(a.spend),
			Conversions: a.conversions,
			CPA:         models.Round2(models.SafeDiv(a.spend, a.conversions)),
		})
	}

	var bestDay *DayPerformance
	var worstDays []DayPerformance
	for i := range dailyPerf {
		d := dailyPerf[i]
		if bestDay == nil || d.Clicks > bestDay.Clicks {
			bestDay = &dailyPerf[i]
		}
		if d.Spend > 0 && d.Conversions == 0 {
			worstDays = append(worstDays, d)
		}
	}

	return TimeReport{
		HourlyPerformance: hourlyPerf,
		DailyPerformance:  dailyPerf,
		BestHour:          bestHour,
		WorstHours:        capLen(worstHours, 5),
		BestDay:           bestDay,
		WorstDays:         worstDays,
	}
}

// WastedDay is a day of week with spend but no conversions.
type WastedDay struct {
	Day    string  `json:"day"`
	Spend  float64 `json:"spend"`
	Clicks int     `json:"clicks"`
	Issue  string  `json:"issue"`
}

// BestDayEntry is a converting day ranked by CPA.
type BestDayEntry struct {
	Day         string  `json:"day"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	Clicks      int     `json:"clicks"`
}

// DayOfWeekReport supports day-schedule bid recommendations.
type DayOfWeekReport struct {
	WastedDays        []WastedDay    `json:"wasted_days"`
	BestDays          []BestDayEntry `json:"best_days"`
	TotalWastedOnDays float64        `json:"total_wasted_on_days"`
}

// DayOfWeek flags days with over 10 in spend and zero conversions and ranks
// the converting days cheapest CPA first.
func DayOfWeek(t TimeReport) DayOfWeekReport {
	if len(t.DailyPerformance) == 0 {
		return DayOfWeekReport{}
	}

	var wasted []WastedDay
	var best []BestDayEntry
	for _, day := range t.DailyPerformance {
		if day.Spend > 10 && day.Conversions == 0 {
			wasted = append(wasted, WastedDay{
				Day:    day.Day,
				Spend:  day.Spend,
				Clicks: day.Clicks,
				Issue:  "Zero conversions",
			})
		} else if day.Conversions > 0 {
			best = append(best, BestDayEntry{
				Day:         day.Day,
				Spend:       day.Spend,
				Conversions: day.Conversions,
				CPA:         models.Round2(day.Spend / day.Conversions),
				Clicks:      day.Clicks,
			})
		}
	}

	sort.SliceStable(best, func(i, j int) bool { return best[i].CPA < best[j].CPA })
	sort.SliceStable(wasted, func(i, j int) bool { return wasted[i].Spend > wasted[j].Spend })

	var totalWasted float64
	for _, w := range wasted {
		totalWasted += w.Spend
	}

	return DayOfWeekReport{
		WastedDays:        wasted,
		BestDays:          capLen(best, 3),
		TotalWastedOnDays: models.Round2(totalWasted),
	}
}
