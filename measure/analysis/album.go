package analysis

import (
	"path/filepath"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Album aggregates the results sharing one album key.
type Album struct {
	Key    string `json:"album"`
	Tracks int    `json:"tracks"`

	// Each value is the arithmetic mean over the tracks where it is
	// available.
	Integrated   core.Metric `json:"integrated_lufs"`
	DR14         core.Metric `json:"dr14"`
	PureDynamics core.Metric `json:"pure_dynamics"`
}

// AlbumKey returns the explicit album name, or the directory of the track.
func AlbumKey(r *Result) string {
	if r.Album != "" {
		return r.Album
	}

	if r.Path != "" {
		return filepath.Dir(r.Path)
	}

	return ""
}

// Albums groups results by AlbumKey in order of first appearance.
func Albums(results []Result) []Album {
	type acc struct {
		album              Album
		integrated, dr, pd mean
	}

	var (
		order []string
		byKey = map[string]*acc{}
	)

	for i := range results {
		r := &results[i]
		key := AlbumKey(r)

		a, ok := byKey[key]
		if !ok {
			a = &acc{album: Album{Key: key}}
			byKey[key] = a
			order = append(order, key)
		}

		a.album.Tracks++
		a.integrated.add(r.Integrated)
		a.dr.add(r.DR14)
		a.pd.add(r.PureDynamics)
	}

	out := make([]Album, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		a.album.Integrated = a.integrated.value()
		a.album.DR14 = a.dr.value()
		a.album.PureDynamics = a.pd.value()
		out = append(out, a.album)
	}

	return out
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v core.Metric) {
	if x, ok := v.Value(); ok {
		m.sum += x
		m.n++
	}
}

func (m *mean) value() core.Metric {
	if m.n == 0 {
		return core.Unavailable()
	}

	return core.Computed(m.sum / float64(m.n))
}
