package models

import "time"

func daysBetween(start, end string) int {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}

func Round1(f float64) float64 { return roundTo(f, 10) }
func Round2(f float64) float64 { return roundTo(f, 100) }
func Round3(f float64) float64 { return roundTo(f, 1000) }

func roundTo(f float64, scale float64) float64 {
	if f < 0 {
		return float64(int64(f*scale-0.5)) / scale
	}
	return float64(int64(f*scale+0.5)) / scale
}
