package render

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
)

// JSON writes the reports as an indented JSON array, or a single object when
// there is exactly one report.
func JSON(w io.Writer, reports []*query.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "render: encode json")
	}
	return nil
}
