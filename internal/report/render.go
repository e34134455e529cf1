// Package report prints analytics snapshots as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"tour-analytics/internal/models"
	"tour-analytics/internal/services"
)

// Sections that can be printed, in the order "all" prints them.
const (
	SectionClients      = "clients"
	SectionTours        = "tours"
	SectionApplications = "applications"
	SectionMixed        = "mixed"
)

var Sections = []string{SectionClients, SectionTours, SectionApplications, SectionMixed}

// Renderer writes snapshot sections to out.
type Renderer struct {
	out   io.Writer
	title *color.Color
	trend map[models.Trend]*color.Color
	muted *color.Color
}

func NewRenderer(out io.Writer, useColors bool) *Renderer {
	r := &Renderer{
		out:   out,
		title: color.New(color.FgWhite, color.Bold),
		trend: map[models.Trend]*color.Color{
			models.TrendIncreasing:       color.New(color.FgGreen),
			models.TrendDecreasing:       color.New(color.FgRed),
			models.TrendStable:           color.New(color.FgYellow),
			models.TrendInsufficientData: color.New(color.FgHiBlack),
		},
		muted: color.New(color.FgHiBlack),
	}
	for _, c := range r.colors() {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *Renderer) colors() []*color.Color {
	cs := []*color.Color{r.title, r.muted}
	for _, c := range r.trend {
		cs = append(cs, c)
	}
	return cs
}

// Render prints one section of snapshot.
func (r *Renderer) Render(section string, snapshot *models.Snapshot) error {
	switch section {
	case SectionClients:
		return r.clients(snapshot.Clients)
	case SectionTours:
		return r.tours(snapshot.Tours)
	case SectionApplications:
		return r.applications(snapshot.Applications)
	case SectionMixed:
		return r.mixed(snapshot.Applications, snapshot.Insights)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

func (r *Renderer) heading(title string) {
	r.title.Fprintf(r.out, "\n%s\n", title)
}

func (r *Renderer) clients(c models.ClientAnalytics) error {
	r.heading("Clients")
	fmt.Fprintf(r.out, "Clients: %d  Other contacts: %d  Regular clients: %d (%.1f%%)\n",
		c.ClientsVsContacts.Clients, c.ClientsVsContacts.Contacts,
		c.RegularClients.Count, c.RegularClients.Percentage)

	if err := r.counts("Gender", countRows(models.Genders(), c.GenderDistribution)); err != nil {
		return err
	}
	if err := r.counts("Age group", countRows(models.AgeGroups(), c.AgeDistribution)); err != nil {
		return err
	}
	return r.counts("Preferred tour type", countRows(models.TourTypes(), c.PreferredTourTypeDistribution))
}

func (r *Renderer) tours(t models.TourAnalytics) error {
	r.heading("Tours")
	if err := r.trends("Season", trendRows(models.Seasons(), t.SeasonDistribution, t.SeasonTrends, r.trend)); err != nil {
		return err
	}
	return r.trends("Tour type", trendRows(models.TourTypes(), t.TypeDistribution, t.TypeTrends, r.trend))
}

func (r *Renderer) applications(a models.ApplicationAnalytics) error {
	r.heading("Applications")
	fmt.Fprintf(r.out, "Total applications: %d\n", a.StatusDistribution.Total())

	if err := r.counts("Status", countRows(models.ApplicationStatuses(), a.StatusDistribution)); err != nil {
		return err
	}
	if err := r.counts("Season", countRows(models.Seasons(), a.SeasonDistribution)); err != nil {
		return err
	}
	return r.counts("Tour type", countRows(models.TourTypes(), a.TypeDistribution))
}

func (r *Renderer) mixed(a models.ApplicationAnalytics, insights models.MixedInsights) error {
	r.heading("Applications by season and gender")
	if err := crossTable(r, models.Seasons(), models.Genders(), a.SeasonGenderDistribution); err != nil {
		return err
	}
	r.heading("Applications by tour type and age group")
	if err := crossTable(r, models.TourTypes(), models.AgeGroups(), a.TypeAgeDistribution); err != nil {
		return err
	}

	r.heading("Insights")
	for _, line := range services.DescribeInsights(insights) {
		fmt.Fprintf(r.out, "  - %s\n", line)
	}
	return nil
}

func (r *Renderer) counts(title string, rows [][]string) error {
	return r.table([]string{title, "Count"}, rows)
}

func (r *Renderer) trends(title string, rows [][]string) error {
	return r.table([]string{title, "Tours", "Trend", "Change", "Recent average"}, rows)
}

type labeled interface {
	~string
	Label() string
}

func countRows[K labeled](keys []K, counts models.CountMap[K]) [][]string {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k.Label(), strconv.Itoa(counts[k])})
	}
	return rows
}

func trendRows[K labeled](keys []K, counts models.CountMap[K], trends map[K]models.TrendEstimate, palette map[models.Trend]*color.Color) [][]string {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		est := trends[k]
		label := est.Trend.Label()
		if c, ok := palette[est.Trend]; ok {
			label = c.Sprint(label)
		}
		rows = append(rows, []string{
			k.Label(),
			strconv.Itoa(counts[k]),
			label,
			fmt.Sprintf("%.1f%%", est.Percentage),
			fmt.Sprintf("%.2f", est.Average),
		})
	}
	return rows
}

// crossTable prints a cross-tabulation with row totals; empty cells are
// dimmed.
func crossTable[R labeled, C labeled](r *Renderer, rows []R, cols []C, tab models.CrossTab[R, C]) error {
	header := []string{""}
	for _, c := range cols {
		header = append(header, c.Label())
	}
	header = append(header, "Total")

	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{row.Label()}
		for _, c := range cols {
			n := strconv.Itoa(tab[row][c])
			if tab[row][c] == 0 {
				n = r.muted.Sprint(n)
			}
			line = append(line, n)
		}
		line = append(line, strconv.Itoa(tab[row].Total()))
		body = append(body, line)
	}
	return r.table(header, body)
}

func (r *Renderer) table(header []string, rows [][]string) error {
	table := tablewriter.NewTable(r.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return table.Render()
}
