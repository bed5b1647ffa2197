package workspace

import "fmt"

// Kind classifies an artifact and maps it to exactly one subdirectory of a
// workspace run tree. The set is closed: unrecognized material falls back to
// KindData (routed by inference) rather than growing the enum.
type Kind string

const (
	KindUpload       Kind = "upload"
	KindData         Kind = "data"
	KindModel        Kind = "model"
	KindReport       Kind = "report"
	KindPlot         Kind = "plot"
	KindMetric       Kind = "metric"
	KindIndex        Kind = "index"
	KindLog          Kind = "log"
	KindTemp         Kind = "temp"
	KindManifest     Kind = "manifest"
	KindUnstructured Kind = "unstructured"
)

// subdirs maps each kind to its directory name inside a run tree. The names
// are a disk-level contract other tooling relies on; do not rename them.
var subdirs = map[Kind]string{
	KindUpload:       "uploads",
	KindData:         "data",
	KindModel:        "models",
	KindReport:       "reports",
	KindPlot:         "plots",
	KindMetric:       "metrics",
	KindIndex:        "indexes",
	KindLog:          "logs",
	KindTemp:         "tmp",
	KindManifest:     "manifests",
	KindUnstructured: "unstructured",
}

// Kinds returns every kind in layout order.
func Kinds() []Kind {
	return []Kind{
		KindUpload, KindData, KindModel, KindReport, KindPlot, KindMetric,
		KindIndex, KindLog, KindTemp, KindManifest, KindUnstructured,
	}
}

// Subdir returns the directory name for this kind within a run tree.
func (k Kind) Subdir() string {
	if d, ok := subdirs[k]; ok {
		return d
	}
	return subdirs[KindData]
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	_, ok := subdirs[k]
	return ok
}

// ParseKind parses a kind name, accepting the empty string as "infer later".
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return "", nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown artifact kind: %q (must be one of upload, data, model, report, plot, metric, index, log, temp, manifest, unstructured)", s)
	}
	return k, nil
}
