package analyze

import (
	"github.com/growthops/adscope/internal/models"
)

// CampaignPacing is one campaign's budget utilization.
type CampaignPacing struct {
	CampaignName   string  `json:"campaign_name"`
	BudgetType     string  `json:"budget_type"`
	Budget         float64 `json:"budget"`
	AvgDailySpend  float64 `json:"avg_daily_spend,omitempty"`
	TotalSpend     float64 `json:"total_spend,omitempty"`
	UtilizationPct float64 `json:"utilization_pct"`
	Status         string  `json:"status"`
}

// BudgetPacingReport summarizes spend rate against configured budgets.
type BudgetPacingReport struct {
	TotalSpend       float64          `json:"total_spend"`
	DailyAverage     float64          `json:"daily_average"`
	ProjectedMonthly float64          `json:"projected_monthly"`
	DaysInRange      int              `json:"days_in_range"`
	CampaignPacing   []CampaignPacing `json:"campaign_pacing"`
}

// BudgetPacing compares each campaign's spend rate against its daily or
// lifetime budget. Daily budgets flag overspending above 110% utilization
// and underspending below 70%; lifetime budgets use 90% and 30%.
func BudgetPacing(campaigns []models.Campaign, daysInRange int) BudgetPacingReport {
	if len(campaigns) == 0 {
		return BudgetPacingReport{}
	}

	var totalSpend float64
	for _, c := range campaigns {
		totalSpend += c.Spend
	}
	var dailyAvg float64
	if daysInRange > 0 {
		dailyAvg = totalSpend / float64(daysInRange)
	}

	var pacing []CampaignPacing
	for _, camp := range campaigns {
		var campDailyAvg float64
		if daysInRange > 0 {
			campDailyAvg = camp.Spend / float64(daysInRange)
		}

		switch {
		case camp.DailyBudget > 0:
			utilization := campDailyAvg / camp.DailyBudget * 100
			status := "on_track"
			if utilization > 110 {
				status = "overspending"
			} else if utilization < 70 {
				status = "underspending"
			}
			pacing = append(pacing, CampaignPacing{
				CampaignName:   camp.CampaignName,
				BudgetType:     "daily",
				Budget:         camp.DailyBudget,
				AvgDailySpend:  models.Round2(campDailyAvg),
				UtilizationPct: models.Round1(utilization),
				Status:         status,
			})
		case camp.LifetimeBudget > 0:
			utilization := camp.Spend / camp.LifetimeBudget * 100
			status := "on_track"
			if utilization > 90 {
				status = "overspending"
			} else if utilization < 30 {
				status = "underspending"
			}
			pacing = append(pacing, CampaignPacing{
				CampaignName:   camp.CampaignName,
				BudgetType:     "lifetime",
				Budget:         camp.LifetimeBudget,
				TotalSpend:     models.Round2(camp.Spend),
				UtilizationPct: models.Round1(utilization),
				Status:         status,
			})
		}
	}

	return BudgetPacingReport{
		TotalSpend:       models.Round2(totalSpend),
		DailyAverage:     models.Round2(dailyAvg),
		ProjectedMonthly: models.Round2(dailyAvg * 30),
		DaysInRange:      daysInRange,
		CampaignPacing:   pacing,
	}
}
