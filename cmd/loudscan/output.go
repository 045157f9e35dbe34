package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/analysis"
)

type report struct {
	Tracks []analysis.Result `json:"tracks"`
	Albums []analysis.Album  `json:"albums,omitempty"`
}

func writeJSON(w io.Writer, results []analysis.Result, albums []analysis.Album) error {
	if results == nil {
		results = []analysis.Result{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report{Tracks: results, Albums: albums})
}

func writeTable(w io.Writer, results []analysis.Result, albums []analysis.Album) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Track\tIntegrated [LUFS]\tLRA [LU]\tMax S [LUFS]\tTrue Peak [dBTP]\tPLR [dB]\tDR14\tPure Dynamics")
	fmt.Fprintln(tw, "-----\t-----------------\t--------\t------------\t----------------\t--------\t----\t-------------")

	for i := range results {
		r := &results[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			trackLabel(r),
			format1(r.Integrated),
			format1(r.LoudnessRange),
			format1(r.ShortTerm),
			format1(r.TruePeak),
			format1(r.PLR),
			format1(r.DR14),
			format1(r.PureDynamics),
		)
	}

	if len(albums) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Album\tTracks\tIntegrated [LUFS]\tDR14\tPure Dynamics")
		fmt.Fprintln(tw, "-----\t------\t-----------------\t----\t-------------")

		for _, a := range albums {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
				a.Key, a.Tracks, format1(a.Integrated), format1(a.DR14), format1(a.PureDynamics))
		}
	}

	return tw.Flush()
}

func trackLabel(r *analysis.Result) string {
	if r.Title != "" {
		return r.Title
	}

	return filepath.Base(r.Path)
}

func format1(m core.Metric) string {
	v, ok := m.Value()
	if !ok {
		return "-"
	}

	return fmt.Sprintf("%.1f", v)
}
