package services

import (
	"fmt"
	"strings"

	"tour-analytics/internal/models"
)

// smallSampleThreshold is the cross-tabulated application count below which
// insights are flagged as based on a small sample.
const smallSampleThreshold = 50

// ComputeMixedInsights derives headline findings from the season×gender and
// type×age cross-tabulations. Ties resolve to the value that comes first in
// enum order.
func ComputeMixedInsights(apps models.ApplicationAnalytics) models.MixedInsights {
	var insights models.MixedInsights

	byGender := models.NewGenderCounts()
	bySeason := models.NewSeasonCounts()
	for _, season := range models.Seasons() {
		for _, gender := range models.Genders() {
			n := apps.SeasonGenderDistribution[season][gender]
			byGender[gender] += n
			bySeason[season] += n

			best := insights.MostActiveSeasonGender
			if n > 0 && (best == nil || n > best.Count) {
				insights.MostActiveSeasonGender = &models.SeasonGenderCell{Season: season, Gender: gender, Count: n}
			}
		}
	}

	for _, tourType := range models.TourTypes() {
		for _, age := range models.AgeGroups() {
			n := apps.TypeAgeDistribution[tourType][age]
			best := insights.MostPopularTypeAge
			if n > 0 && (best == nil || n > best.Count) {
				insights.MostPopularTypeAge = &models.TypeAgeCell{TourType: tourType, AgeGroup: age, Count: n}
			}
		}
	}

	insights.TotalApplications = byGender.Total()

	dominant := models.GenderMale
	for _, gender := range models.Genders() {
		if byGender[gender] > byGender[dominant] {
			dominant = gender
		}
	}
	insights.DominantGender = models.GenderShare{
		Gender:     dominant,
		Count:      byGender[dominant],
		Percentage: percentOf(byGender[dominant], insights.TotalApplications),
	}

	for _, season := range models.Seasons() {
		n := bySeason[season]
		if n > 0 && (insights.PeakSeason == nil || n > insights.PeakSeason.Count) {
			insights.PeakSeason = &models.SeasonTotal{Season: season, Count: n}
		}
	}

	insights.InsufficientData = insights.TotalApplications == 0
	insights.SmallSample = insights.TotalApplications > 0 && insights.TotalApplications < smallSampleThreshold

	return insights
}

// DescribeInsights renders insights as short English sentences for the
// dashboard and the report.
func DescribeInsights(insights models.MixedInsights) []string {
	if insights.InsufficientData {
		return []string{"Not enough application data to draw conclusions yet"}
	}

	var lines []string
	if c := insights.MostActiveSeasonGender; c != nil {
		lines = append(lines, fmt.Sprintf("Most active group: %s applicants in %s (%d applications)",
			strings.ToLower(c.Gender.Label()), strings.ToLower(c.Season.Label()), c.Count))
	}

	d := insights.DominantGender
	lines = append(lines, fmt.Sprintf("%s applicants account for %.1f%% of all applications",
		d.Gender.Label(), d.Percentage))

	if c := insights.MostPopularTypeAge; c != nil {
		lines = append(lines, fmt.Sprintf("Most popular combination: age group %s prefers %s tours (%d applications)",
			c.AgeGroup.Label(), strings.ToLower(c.TourType.Label()), c.Count))
	}

	if p := insights.PeakSeason; p != nil {
		lines = append(lines, fmt.Sprintf("Peak activity falls in %s (%d applications)",
			strings.ToLower(p.Season.Label()), p.Count))
	}

	lines = append(lines, "Tailor marketing campaigns to the preferences identified above")
	if insights.SmallSample {
		lines = append(lines, "Collect more applications for more reliable conclusions")
	}
	return lines
}
