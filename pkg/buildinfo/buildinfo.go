// Package buildinfo describes how this binary was built.
//
// Everything here is resolved at compile time: the distributed runtime and
// precision flags come from build tags, and the revision strings are
// injected with -ldflags. Nothing in this package changes after the process
// starts.
//
// Build tags:
//   - dice_dist: the coordinated distributed runtime is compiled in
//   - dice_double: working precision is double
//   - dice_int_storage: data is stored as int
//   - dice_float_storage: data is stored as float
//
// Example:
//
//	go build -tags dice_dist,dice_double \
//	  -ldflags "-X github.com/dicengine/dice/pkg/buildinfo.Revision=$(git rev-parse HEAD)" \
//	  ./cmd/dice
package buildinfo

// Build-time variables injected via ldflags
var (
	Revision  = "unknown"
	Version   = "dev"
	BuildDate = "unknown"
)

// Descriptor is a read-only snapshot of the build configuration.
type Descriptor struct {
	Distributed bool      `json:"distributed" yaml:"distributed"`
	Working     Precision `json:"working_precision" yaml:"working_precision"`
	Storage     Storage   `json:"storage_precision" yaml:"storage_precision"`
	Revision    string    `json:"revision" yaml:"revision"`
	Version     string    `json:"version" yaml:"version"`
	BuildDate   string    `json:"build_date" yaml:"build_date"`
	LayoutRight bool      `json:"layout_right" yaml:"layout_right"`
}

// Current returns the descriptor of the running binary.
func Current() Descriptor {
	working, storage := Resolve(useDouble, storageOverride)
	return Descriptor{
		Distributed: distributed,
		Working:     working,
		Storage:     storage,
		Revision:    Revision,
		Version:     Version,
		BuildDate:   BuildDate,
		LayoutRight: DefaultIsLayoutRight(),
	}
}

// DistributedEnabled reports whether the binary was built with the
// distributed runtime.
func DistributedEnabled() bool {
	return distributed
}

// DefaultIsLayoutRight reports whether multi-dimensional data is laid out
// row-major. Only accelerator builds use column-major, and those are not
// produced by this module.
func DefaultIsLayoutRight() bool {
	return true
}

// Rows returns the descriptor as key/value pairs in display order.
func (d Descriptor) Rows() [][]string {
	return [][]string{
		{"version", d.Version},
		{"revision", d.Revision},
		{"built", d.BuildDate},
		{"distributed", enabledString(d.Distributed)},
		{"working precision", d.Working.String()},
		{"storage precision", d.Storage.String()},
		{"layout right", boolString(d.LayoutRight)},
	}
}

// Headers implements output.TableRenderer.
func (d Descriptor) Headers() []string {
	return []string{"Setting", "Value"}
}

func enabledString(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
