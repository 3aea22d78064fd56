package cache

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey identifies a diagram computed from source with the given hash.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a cached layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// DiagramKey identifies a diagram stored under a public ID.
	DiagramKey(id string) string
}

// LayoutKeyOpts holds every option that changes the computed diagram.
type LayoutKeyOpts struct {
	VizType        string  `json:"viz_type"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	FontSize       float64 `json:"font_size"`
	Diameter       float64 `json:"diameter"`
	Stiffness      float64 `json:"stiffness"`
	Epsilon        float64 `json:"epsilon"`
	MaxNewtonSteps int     `json:"max_newton_steps"`
	MaxSweeps      int     `json:"max_sweeps"`
	Spacing        float64 `json:"spacing"`
	Iterations     int     `json:"iterations"`
	Temperature    float64 `json:"temperature"`
	Cooling        float64 `json:"cooling"`
	DummyOffset    float64 `json:"dummy_offset"`
	FreezeReal     bool    `json:"freeze_real"`
	Detailed       bool    `json:"detailed"`
	Debug          bool    `json:"debug"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Style      string  `json:"style"`
	Background string  `json:"background"`
	Scale      float64 `json:"scale"`
}

// DefaultKeyer hashes option structs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sourceHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// DiagramKey returns "diagram:<id>".
func (DefaultKeyer) DiagramKey(id string) string {
	return "diagram:" + id
}

var _ Keyer = DefaultKeyer{}
