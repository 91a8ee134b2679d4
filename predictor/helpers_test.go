package predictor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"salarypredict/ml"
)

var shippedArtifact = filepath.Join("..", "experiment", "artifacts", "best_model.json")

func exampleProfile() StudentProfile {
	return StudentProfile{
		Age:                    22,
		Gender:                 "Male",
		CGPA:                   8.5,
		Branch:                 "CSE",
		CollegeTier:            "Tier 1",
		InternshipsCount:       2,
		CertificationsCount:    3,
		CodingSkillScore:       80.0,
		HackathonsParticipated: 1,
		GithubRepos:            5,
		LinkedinConnections:    150,
		MockInterviewScore:     75.0,
		AttendancePercentage:   90.0,
		Backlogs:               0,
		ExtracurricularScore:   70.0,
		VolunteerExperience:    "Yes",
		StudyHoursPerDay:       5.0,
	}
}

func loadShippedModel(t *testing.T) ml.Model {
	t.Helper()
	model, err := ml.LoadModel(shippedArtifact)
	require.NoError(t, err)
	return model
}

// shippedArtifactWith loads the shipped artifact and lets the test edit it
// before building.
func shippedArtifactWith(t *testing.T, edit func(a *ml.Artifact)) ml.Model {
	t.Helper()
	payload, err := os.ReadFile(shippedArtifact)
	require.NoError(t, err)
	var artifact ml.Artifact
	require.NoError(t, json.Unmarshal(payload, &artifact))
	edit(&artifact)
	model, err := artifact.Build()
	require.NoError(t, err)
	return model
}

// recordingModel captures the frame it is asked to score.
type recordingModel struct {
	names  []string
	frames []*ml.Frame
	out    []float64
	err    error
}

func (m *recordingModel) Name() string           { return "recording" }
func (m *recordingModel) Version() string        { return "test" }
func (m *recordingModel) FeatureNames() []string { return append([]string(nil), m.names...) }

func (m *recordingModel) Predict(frame *ml.Frame) ([]float64, error) {
	m.frames = append(m.frames, frame)
	return m.out, m.err
}
