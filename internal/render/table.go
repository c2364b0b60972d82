// Package render turns location reports into their output forms: the
// sectioned terminal table, indented JSON, and a GeoJSON feature collection.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
)

const ruleWidth = 60

var sectionTitles = map[hazard.Kind]string{
	hazard.KindHurricane: "HURRICANES",
	hazard.KindTornado:   "TORNADOES",
	hazard.KindWildfire:  "WILDFIRES",
}

var emptySectionLines = map[hazard.Kind]string{
	hazard.KindHurricane: "No hurricanes within search radius.",
	hazard.KindTornado:   "No recent tornadoes within search radius.",
	hazard.KindWildfire:  "No active wildfires within search radius.",
}

// Table writes the terminal report for the given location reports. A single
// report prints as one block; multiple reports get a trailing batch summary.
func Table(w io.Writer, reports []*query.Report) error {
	t := &tableWriter{w: w}

	t.printf("\n%s\n", strings.Repeat("=", ruleWidth))
	t.printf("  NATURAL DISASTER DISTANCE MONITOR\n")
	t.printf("%s\n", strings.Repeat("=", ruleWidth))

	for _, r := range reports {
		t.report(r)
	}
	if len(reports) > 1 {
		t.batchSummary(reports)
	}
	t.printf("\n")
	return t.err
}

// tableWriter sticks on the first write error so the section methods can
// stay unconditional.
type tableWriter struct {
	w   io.Writer
	err error
}

func (t *tableWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tableWriter) report(r *query.Report) {
	t.printf("\n[*] Location: %s\n", r.Location.Name)
	t.printf("    Coordinates: (%.4f, %.4f)\n", r.Location.Latitude, r.Location.Longitude)
	t.printf("    Search Radius: %.0f miles\n", r.RadiusMiles)

	for _, kind := range hazard.Kinds() {
		results, ok := r.Results[kind]
		if !ok {
			continue
		}
		t.section(kind, results)
	}

	t.printf("\n%s\n", strings.Repeat("-", ruleWidth))
	t.printf("    SUMMARY: %d total disasters within %.0f miles\n", r.Summary.Total, r.RadiusMiles)
	t.printf("    Query Time: %s\n", r.QueryTime.Format("2006-01-02 15:04:05"))
	t.printf("%s\n", strings.Repeat("-", ruleWidth))
}

func (t *tableWriter) section(kind hazard.Kind, results []hazard.Result) {
	t.printf("\n[%s] (%d found)\n", sectionTitles[kind], len(results))
	if len(results) == 0 {
		t.printf("    %s\n", emptySectionLines[kind])
		return
	}
	for _, res := range results {
		switch kind {
		case hazard.KindHurricane:
			t.hurricane(res)
		case hazard.KindTornado:
			t.tornado(res)
		case hazard.KindWildfire:
			t.wildfire(res)
		}
	}
}

func (t *tableWriter) hurricane(res hazard.Result) {
	inside := ""
	if res.Contained {
		inside = " (INSIDE CONE)"
	}
	t.printf("    * %s - %.1f miles%s\n", res.Name, res.DistanceMiles, inside)
	t.printf("      %s\n", res.Severity)
	if line := hurricaneWindLine(res.Hurricane); line != "" {
		t.printf("      %s\n", line)
	}
}

func (t *tableWriter) tornado(res hazard.Result) {
	date := "date unknown"
	if res.Tornado != nil && res.Tornado.StormDate != nil {
		date = res.Tornado.StormDate.Format("2006-01-02")
	}
	t.printf("    * %s - %.1f miles (%s)\n", res.Name, res.DistanceMiles, date)
	t.printf("      %s\n", res.Severity)
	d := res.Tornado
	if d == nil {
		return
	}
	if d.PathLengthMiles > 0 && d.PathWidthYards > 0 {
		t.printf("      Path: %.1f mi x %.0f yds\n", d.PathLengthMiles, d.PathWidthYards)
	}
	if line := casualtyLine(d); line != "" {
		t.printf("      Casualties: %s\n", line)
	}
}

func (t *tableWriter) wildfire(res hazard.Result) {
	inside := ""
	if res.Contained {
		inside = " (INSIDE PERIMETER)"
	}
	t.printf("    * %s - %.1f miles%s\n", res.Name, res.DistanceMiles, inside)
	d := res.Wildfire
	if d == nil {
		t.printf("      %s\n", res.Severity)
		return
	}
	line := hazard.FormatAcres(d.Acres)
	if d.ContainmentPercent != nil {
		line += fmt.Sprintf(" (%.0f%% contained)", *d.ContainmentPercent)
	}
	t.printf("      %s\n", line)
}

func (t *tableWriter) batchSummary(reports []*query.Report) {
	total := 0
	var most *query.Report
	for _, r := range reports {
		total += r.Summary.Total
		if most == nil || r.Summary.Total > most.Summary.Total {
			most = r
		}
	}

	t.printf("\n%s\n", strings.Repeat("=", ruleWidth))
	t.printf("  BATCH SUMMARY\n")
	t.printf("%s\n", strings.Repeat("=", ruleWidth))
	t.printf("   Locations Queried: %d\n", len(reports))
	t.printf("   Total Disasters Found: %d\n", total)
	if most != nil && most.Summary.Total > 0 {
		t.printf("   Most Affected: %s (%d disasters)\n", most.Location.Name, most.Summary.Total)
	}
	t.printf("%s\n", strings.Repeat("=", ruleWidth))
}

func hurricaneWindLine(d *hazard.HurricaneDetails) string {
	if d == nil || d.MaxWindMPH <= 0 {
		return ""
	}
	line := fmt.Sprintf("Winds: %.0f mph", d.MaxWindMPH)
	if d.GustMPH > 0 {
		line += fmt.Sprintf(" (gusts %.0f mph)", d.GustMPH)
	}
	if d.MovementDir != "" && d.MovementMPH > 0 {
		line += fmt.Sprintf(", moving %s at %.0f mph", d.MovementDir, d.MovementMPH)
	}
	return line
}

func casualtyLine(d *hazard.TornadoDetails) string {
	var parts []string
	if d.Fatalities > 0 {
		parts = append(parts, fmt.Sprintf("%d fatalities", d.Fatalities))
	}
	if d.Injuries > 0 {
		parts = append(parts, fmt.Sprintf("%d injuries", d.Injuries))
	}
	return strings.Join(parts, ", ")
}
