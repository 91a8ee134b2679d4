package predictor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"salarypredict/ml"
)

type FieldKind string

const (
	FieldInteger FieldKind = "integer"
	FieldFloat   FieldKind = "float"
	FieldEnum    FieldKind = "enum"
)

// Field binds one form widget to one model input.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Group   string    `json:"group"`
	Kind    FieldKind `json:"kind"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max,omitempty"`
	HasMax  bool      `json:"has_max"`
	Options []string  `json:"options,omitempty"`

	get func(StudentProfile) ml.Value
	set func(*StudentProfile, ml.Value)
}

// Clamp forces v into the widget bounds. Integers are truncated toward zero
// first. Enum values are returned unchanged.
func (f Field) Clamp(v ml.Value) ml.Value {
	x, ok := v.Float()
	if !ok {
		return v
	}
	if math.IsNaN(x) {
		x = f.Min
	}
	if f.Kind == FieldInteger {
		x = math.Trunc(x)
	}
	if x < f.Min {
		x = f.Min
	}
	if f.HasMax && x > f.Max {
		x = f.Max
	}
	return ml.Number(x)
}

// Default is the value an untouched widget submits.
func (f Field) Default() ml.Value {
	if f.Kind == FieldEnum {
		return ml.Category(f.Options[0])
	}
	return ml.Number(f.Min)
}

// Parse converts raw form text into a value of the field's kind, clamped to
// the widget bounds. Empty input yields Default. Non-finite numbers and
// integers beyond the int range are rejected.
func (f Field) Parse(raw string) (ml.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return f.Default(), nil
	}
	if f.Kind == FieldEnum {
		return ml.Category(raw), nil
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return ml.Value{}, fmt.Errorf("%q is not a number", raw)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ml.Value{}, fmt.Errorf("%q is not a finite number", raw)
	}
	v := f.Clamp(ml.Number(x))
	if f.Kind == FieldInteger {
		if n, _ := v.Float(); n < minInt || n >= -minInt {
			return ml.Value{}, fmt.Errorf("%q is out of range", raw)
		}
	}
	return v, nil
}

// minInt is the smallest int as a float64; -minInt is one past the largest.
const minInt = float64(math.MinInt)

func (f Field) Get(p StudentProfile) ml.Value { return f.get(p) }

func (f Field) Set(p *StudentProfile, v ml.Value) { f.set(p, v) }

func num(v ml.Value) float64 {
	x, _ := v.Float()
	return x
}

func label(v ml.Value) string {
	s, _ := v.Label()
	return s
}

func intField(name, lbl, group string, min, max float64, hasMax bool, get func(StudentProfile) int, set func(*StudentProfile, int)) Field {
	return Field{
		Name: name, Label: lbl, Group: group, Kind: FieldInteger, Min: min, Max: max, HasMax: hasMax,
		get: func(p StudentProfile) ml.Value { return ml.Number(float64(get(p))) },
		set: func(p *StudentProfile, v ml.Value) { set(p, int(num(v))) },
	}
}

func floatField(name, lbl, group string, min, max float64, get func(StudentProfile) float64, set func(*StudentProfile, float64)) Field {
	return Field{
		Name: name, Label: lbl, Group: group, Kind: FieldFloat, Min: min, Max: max, HasMax: true,
		get: func(p StudentProfile) ml.Value { return ml.Number(get(p)) },
		set: func(p *StudentProfile, v ml.Value) { set(p, num(v)) },
	}
}

func enumField(name, lbl, group string, options []string, get func(StudentProfile) string, set func(*StudentProfile, string)) Field {
	return Field{
		Name: name, Label: lbl, Group: group, Kind: FieldEnum, Options: options,
		get: func(p StudentProfile) ml.Value { return ml.Category(get(p)) },
		set: func(p *StudentProfile, v ml.Value) { set(p, label(v)) },
	}
}

// Schema is the ordered table of form fields, in the order the form declares them.
type Schema struct {
	fields []Field
	byName map[string]int
}

func NewSchema(fields ...Field) *Schema {
	s := &Schema{fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		s.byName[f.Name] = i
	}
	return s
}

// StudentSchema is the placement form.
func StudentSchema() *Schema {
	const (
		personal = "Personal Info"
		academic = "Academic Profile"
		skills   = "Skills & Experience"
		online   = "Online Presence & Others"
	)
	return NewSchema(
		intField("age", "Age", personal, 18, 35, true,
			func(p StudentProfile) int { return p.Age }, func(p *StudentProfile, v int) { p.Age = v }),
		enumField("gender", "Gender", personal, []string{"Male", "Female"},
			func(p StudentProfile) string { return p.Gender }, func(p *StudentProfile, v string) { p.Gender = v }),
		floatField("cgpa", "CGPA", academic, 0, 10,
			func(p StudentProfile) float64 { return p.CGPA }, func(p *StudentProfile, v float64) { p.CGPA = v }),
		enumField("branch", "Branch", personal, []string{"IT", "CSE", "EEE", "Mechanical", "Civil"},
			func(p StudentProfile) string { return p.Branch }, func(p *StudentProfile, v string) { p.Branch = v }),
		enumField("college_tier", "College Tier", personal, []string{"Tier 1", "Tier 2", "Tier 3"},
			func(p StudentProfile) string { return p.CollegeTier }, func(p *StudentProfile, v string) { p.CollegeTier = v }),
		intField("internships_count", "Internships", skills, 0, 0, false,
			func(p StudentProfile) int { return p.InternshipsCount }, func(p *StudentProfile, v int) { p.InternshipsCount = v }),
		intField("certifications_count", "Certifications", skills, 0, 0, false,
			func(p StudentProfile) int { return p.CertificationsCount }, func(p *StudentProfile, v int) { p.CertificationsCount = v }),
		floatField("coding_skill_score", "Coding Score", skills, 0, 100,
			func(p StudentProfile) float64 { return p.CodingSkillScore }, func(p *StudentProfile, v float64) { p.CodingSkillScore = v }),
		intField("hackathons_participated", "Hackathons", online, 0, 0, false,
			func(p StudentProfile) int { return p.HackathonsParticipated }, func(p *StudentProfile, v int) { p.HackathonsParticipated = v }),
		intField("github_repos", "GitHub Repos", online, 0, 0, false,
			func(p StudentProfile) int { return p.GithubRepos }, func(p *StudentProfile, v int) { p.GithubRepos = v }),
		intField("linkedin_connections", "LinkedIn Connections", online, 0, 0, false,
			func(p StudentProfile) int { return p.LinkedinConnections }, func(p *StudentProfile, v int) { p.LinkedinConnections = v }),
		floatField("mock_interview_score", "Mock Interview Score", online, 0, 100,
			func(p StudentProfile) float64 { return p.MockInterviewScore }, func(p *StudentProfile, v float64) { p.MockInterviewScore = v }),
		floatField("attendance_percentage", "Attendance %", academic, 0, 100,
			func(p StudentProfile) float64 { return p.AttendancePercentage }, func(p *StudentProfile, v float64) { p.AttendancePercentage = v }),
		intField("backlogs", "Backlogs", academic, 0, 0, false,
			func(p StudentProfile) int { return p.Backlogs }, func(p *StudentProfile, v int) { p.Backlogs = v }),
		floatField("extracurricular_score", "Extra-curricular", skills, 0, 100,
			func(p StudentProfile) float64 { return p.ExtracurricularScore }, func(p *StudentProfile, v float64) { p.ExtracurricularScore = v }),
		enumField("volunteer_experience", "Volunteer Experience", online, []string{"Yes", "No"},
			func(p StudentProfile) string { return p.VolunteerExperience }, func(p *StudentProfile, v string) { p.VolunteerExperience = v }),
		floatField("study_hours_per_day", "Study Hours/Day", academic, 0, 24,
			func(p StudentProfile) float64 { return p.StudyHoursPerDay }, func(p *StudentProfile, v float64) { p.StudyHoursPerDay = v }),
	)
}

func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Record reads every field of p, clamped to its widget bounds.
func (s *Schema) Record(p StudentProfile) ml.FeatureRecord {
	record := make(ml.FeatureRecord, len(s.fields))
	for _, f := range s.fields {
		record[f.Name] = f.Clamp(f.Get(p))
	}
	return record
}

// Clamp returns p with every numeric field forced into its widget bounds.
func (s *Schema) Clamp(p StudentProfile) StudentProfile {
	out := p
	for _, f := range s.fields {
		if f.Kind != FieldEnum {
			f.Set(&out, f.Clamp(f.Get(p)))
		}
	}
	return out
}

// Defaults returns the profile an untouched form submits.
func (s *Schema) Defaults() StudentProfile {
	var p StudentProfile
	for _, f := range s.fields {
		f.Set(&p, f.Default())
	}
	return p
}

// ParseValues builds a profile from raw form values keyed by field name.
func (s *Schema) ParseValues(get func(name string) string) (StudentProfile, error) {
	var p StudentProfile
	for _, f := range s.fields {
		v, err := f.Parse(get(f.Name))
		if err != nil {
			return StudentProfile{}, &InputError{Fields: map[string]string{f.Name: err.Error()}}
		}
		f.Set(&p, v)
	}
	return p, nil
}

// Binding is the outcome of checking the schema against a loaded model.
type Binding struct {
	ModelOrder []string `json:"model_order"`
	FormOrder  []string `json:"form_order"`
	// OrderDiffers is set when the model declares its inputs in a different
	// order than the form; frames always follow ModelOrder.
	OrderDiffers bool `json:"order_differs"`
}

type categoricalReporter interface {
	IsCategorical(name string) bool
}

// Bind asserts that the form table and the model declare the same inputs.
func (s *Schema) Bind(model ml.Model) (*Binding, error) {
	modelOrder := model.FeatureNames()
	declared := make(map[string]bool, len(modelOrder))
	for _, name := range modelOrder {
		declared[name] = true
	}

	schemaErr := &SchemaError{}
	for _, name := range modelOrder {
		if _, ok := s.byName[name]; !ok {
			schemaErr.Missing = append(schemaErr.Missing, name)
		}
	}
	for _, f := range s.fields {
		if !declared[f.Name] {
			schemaErr.Unexpected = append(schemaErr.Unexpected, f.Name)
		}
	}
	if reporter, ok := model.(categoricalReporter); ok {
		for _, f := range s.fields {
			if declared[f.Name] && reporter.IsCategorical(f.Name) != (f.Kind == FieldEnum) {
				schemaErr.KindMismatch = append(schemaErr.KindMismatch, f.Name)
			}
		}
	}
	if !schemaErr.empty() {
		sort.Strings(schemaErr.Missing)
		sort.Strings(schemaErr.Unexpected)
		sort.Strings(schemaErr.KindMismatch)
		return nil, schemaErr
	}

	formOrder := s.Names()
	differs := false
	for i := range formOrder {
		if formOrder[i] != modelOrder[i] {
			differs = true
			break
		}
	}
	return &Binding{ModelOrder: modelOrder, FormOrder: formOrder, OrderDiffers: differs}, nil
}
