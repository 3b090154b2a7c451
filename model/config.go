package model

type VelocityRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Config is the full option set of one pipeline run. Zero values disable a
// stage, except the tuning knobs which fall back to the constants defaults.
type Config struct {
	Quantize   string         `json:"quantize,omitempty"`
	Straighten bool           `json:"straighten"`
	Swing      float64        `json:"swing"`
	Humanize   bool           `json:"humanize"`
	VelScale   float64        `json:"vel_scale"`
	VelClamp   *VelocityRange `json:"vel_clamp,omitempty"`
	VelHuman   bool           `json:"vel_human"`
	ForceKey   string         `json:"force_key,omitempty"`
	Dedupe     bool           `json:"dedupe"`
	LegatoFix  bool           `json:"legato_fix"`
	DryRun     bool           `json:"dry_run"`
	Overwrite  bool           `json:"overwrite"`

	Seed *int64 `json:"seed,omitempty"`

	StraightenWindow    int64  `json:"straighten_window"`
	HumanizeTicks       int64  `json:"humanize_ticks"`
	VelVariance         int    `json:"vel_variance"`
	DedupeEpsilon       int64  `json:"dedupe_epsilon"`
	SwingGrid           string `json:"swing_grid,omitempty"`
	SwingBeforeQuantize bool   `json:"swing_before_quantize"`
	AllowUnpaired       bool   `json:"allow_unpaired"`
}
