package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func smallArtifact() *Artifact {
	return &Artifact{
		ModelType:      ModelTypeLinearRegression,
		ModelVersion:   "test",
		FeatureNamesIn: []string{"cgpa", "branch", "backlogs"},
		Preprocessor: PreprocessorSpec{
			Categorical: map[string][]string{"branch": {"CSE", "IT"}},
			Scaler:      map[string]ScalerParams{"cgpa": {Mean: 7, Std: 2}},
		},
		Linear: &LinearSpec{
			Intercept: 5,
			Coefficients: map[string]float64{
				"cgpa":       2,
				"branch=CSE": 1.5,
				"branch=IT":  1,
				"backlogs":   -0.5,
			},
		},
	}
}

func smallRecord() FeatureRecord {
	return FeatureRecord{
		"backlogs": Number(1),
		"branch":   Category("CSE"),
		"cgpa":     Number(9),
	}
}

func writeArtifact(t *testing.T, artifact *Artifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "best_model.json")
	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		t.Fatalf("encode artifact: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}
