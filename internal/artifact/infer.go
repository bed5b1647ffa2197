package artifact

import (
	"path/filepath"
	"strings"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

// metricMarkers are stem substrings that mark a .json or .csv file as
// metrics output rather than data.
var metricMarkers = []string{"metric", "score", "eval"}

// InferKind classifies a produced file by extension. Anything not
// recognized routes to the data directory rather than failing.
func InferKind(path string) workspace.Kind {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	switch ext {
	case ".joblib", ".pkl", ".onnx", ".pt", ".h5":
		return workspace.KindModel
	case ".png", ".svg", ".jpg", ".jpeg":
		return workspace.KindPlot
	case ".pdf", ".html", ".md":
		return workspace.KindReport
	case ".log":
		return workspace.KindLog
	case ".faiss", ".index", ".ann":
		return workspace.KindIndex
	case ".docx", ".doc", ".pptx", ".eml", ".msg":
		return workspace.KindUnstructured
	case ".json", ".csv":
		if metricShaped(stem) {
			return workspace.KindMetric
		}
	}
	return workspace.KindData
}

func metricShaped(stem string) bool {
	for _, marker := range metricMarkers {
		if strings.Contains(stem, marker) {
			return true
		}
	}
	return false
}
