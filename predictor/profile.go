package predictor

// StudentProfile is the typed form payload, one field per model input.
type StudentProfile struct {
	Age                    int     `json:"age"`
	Gender                 string  `json:"gender" validate:"required,oneof=Male Female"`
	CGPA                   float64 `json:"cgpa"`
	Branch                 string  `json:"branch" validate:"required,oneof=IT CSE EEE Mechanical Civil"`
	CollegeTier            string  `json:"college_tier" validate:"required,oneof='Tier 1' 'Tier 2' 'Tier 3'"`
	InternshipsCount       int     `json:"internships_count"`
	CertificationsCount    int     `json:"certifications_count"`
	CodingSkillScore       float64 `json:"coding_skill_score"`
	HackathonsParticipated int     `json:"hackathons_participated"`
	GithubRepos            int     `json:"github_repos"`
	LinkedinConnections    int     `json:"linkedin_connections"`
	MockInterviewScore     float64 `json:"mock_interview_score"`
	AttendancePercentage   float64 `json:"attendance_percentage"`
	Backlogs               int     `json:"backlogs"`
	ExtracurricularScore   float64 `json:"extracurricular_score"`
	VolunteerExperience    string  `json:"volunteer_experience" validate:"required,oneof=Yes No"`
	StudyHoursPerDay       float64 `json:"study_hours_per_day"`
}
