package analysis

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Metadata identifies a track.
type Metadata struct {
	Path  string `json:"path,omitempty"`
	Title string `json:"title,omitempty"`
	Album string `json:"album,omitempty"`
}

// Result is the per-track record. Loudness-family values are Unavailable
// (null in JSON) when nothing survives gating; DR14 and PureDynamics are
// 0 when the track is too short.
type Result struct {
	Metadata
	Format

	Frames   int64   `json:"frames"`
	Duration float64 `json:"duration_seconds"`

	// Momentary and ShortTerm are the maxima observed over the track.
	Momentary     core.Metric `json:"momentary_max_lufs"`
	ShortTerm     core.Metric `json:"short_term_max_lufs"`
	Integrated    core.Metric `json:"integrated_lufs"`
	LoudnessRange core.Metric `json:"loudness_range_lu"`

	RMS         core.Metric `json:"rms_dbfs"`
	SamplePeak  core.Metric `json:"sample_peak_dbfs"`
	TruePeak    core.Metric `json:"true_peak_dbtp"`
	PSR         core.Metric `json:"psr_db"`
	PLR         core.Metric `json:"plr_db"`
	CrestFactor core.Metric `json:"crest_factor_db"`

	DR14         core.Metric `json:"dr14"`
	PureDynamics core.Metric `json:"pure_dynamics"`
	Genre        float64     `json:"genre_factor"`
	ModelVersion string      `json:"model_version"`
}
