package handlers

import (
	"tour-analytics/internal/models"
	"tour-analytics/internal/services"
)

// Template views flatten the enum-keyed maps into ordered rows; ranging
// over a map in html/template would sort keys alphabetically instead of in
// enum order.

type countRow struct {
	Label string
	Count int
}

type trendRow struct {
	Label    string
	Count    int
	Estimate models.TrendEstimate
}

type crossCell struct {
	Count   int
	Percent float64
}

type crossRow struct {
	Label string
	Cells []crossCell
	Total int
}

type crossTable struct {
	Title   string
	Corner  string
	Columns []string
	Rows    []crossRow
}

type clientsView struct {
	Clients           int
	Contacts          int
	RegularCount      int
	RegularPercentage float64
	Genders           []countRow
	Ages              []countRow
	PreferredTypes    []countRow
}

type toursView struct {
	Seasons []trendRow
	Types   []trendRow
}

type applicationsView struct {
	Total    int
	Statuses []countRow
	Seasons  []countRow
	Types    []countRow
}

type mixedView struct {
	SeasonGender crossTable
	TypeAge      crossTable
	Insights     []string
}

type labeled interface {
	~string
	Label() string
}

func countRows[K labeled](keys []K, counts models.CountMap[K]) []countRow {
	rows := make([]countRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, countRow{Label: k.Label(), Count: counts[k]})
	}
	return rows
}

func trendRows[K labeled](keys []K, counts models.CountMap[K], trends map[K]models.TrendEstimate) []trendRow {
	rows := make([]trendRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, trendRow{Label: k.Label(), Count: counts[k], Estimate: trends[k]})
	}
	return rows
}

// buildCrossTable computes each cell's share of its row total.
func buildCrossTable[R labeled, C labeled](title, corner string, rows []R, cols []C, tab models.CrossTab[R, C]) crossTable {
	table := crossTable{Title: title, Corner: corner}
	for _, c := range cols {
		table.Columns = append(table.Columns, c.Label())
	}
	for _, r := range rows {
		row := crossRow{Label: r.Label(), Total: tab[r].Total()}
		for _, c := range cols {
			n := tab[r][c]
			cell := crossCell{Count: n}
			if row.Total > 0 {
				cell.Percent = float64(n) / float64(row.Total) * 100
			}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func newClientsView(c models.ClientAnalytics) clientsView {
	return clientsView{
		Clients:           c.ClientsVsContacts.Clients,
		Contacts:          c.ClientsVsContacts.Contacts,
		RegularCount:      c.RegularClients.Count,
		RegularPercentage: c.RegularClients.Percentage,
		Genders:           countRows(models.Genders(), c.GenderDistribution),
		Ages:              countRows(models.AgeGroups(), c.AgeDistribution),
		PreferredTypes:    countRows(models.TourTypes(), c.PreferredTourTypeDistribution),
	}
}

func newToursView(t models.TourAnalytics) toursView {
	return toursView{
		Seasons: trendRows(models.Seasons(), t.SeasonDistribution, t.SeasonTrends),
		Types:   trendRows(models.TourTypes(), t.TypeDistribution, t.TypeTrends),
	}
}

func newApplicationsView(a models.ApplicationAnalytics) applicationsView {
	return applicationsView{
		Total:    a.StatusDistribution.Total(),
		Statuses: countRows(models.ApplicationStatuses(), a.StatusDistribution),
		Seasons:  countRows(models.Seasons(), a.SeasonDistribution),
		Types:    countRows(models.TourTypes(), a.TypeDistribution),
	}
}

func newMixedView(a models.ApplicationAnalytics, insights models.MixedInsights) mixedView {
	return mixedView{
		SeasonGender: buildCrossTable("Applications by season and gender", "Season",
			models.Seasons(), models.Genders(), a.SeasonGenderDistribution),
		TypeAge: buildCrossTable("Applications by tour type and age group", "Tour type",
			models.TourTypes(), models.AgeGroups(), a.TypeAgeDistribution),
		Insights: services.DescribeInsights(insights),
	}
}
