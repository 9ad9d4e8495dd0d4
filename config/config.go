package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	GCPProject  string
	GCPLocation string
	ModelName   string

	// OracleTimeout bounds every single text-generation call. Expiry is
	// treated as an ordinary oracle failure, not a fatal error.
	OracleTimeout time.Duration

	QuestionCount int
}

func Load() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		GCPProject:    os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:   envOr("GOOGLE_CLOUD_LOCATION", "us-central1"),
		ModelName:     envOr("MODEL_NAME", "gemini-1.5-flash"),
		OracleTimeout: time.Duration(envInt("ORACLE_TIMEOUT_SECONDS", 30)) * time.Second,
		QuestionCount: envInt("QUESTION_COUNT", 5),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// JobRoleSkills maps each supported job role to the skills its questions
// and evaluations are scoped to.
var JobRoleSkills = map[string][]string{
	"AI Engineer":      {"Machine Learning", "Python", "PyTorch", "TensorFlow", "Deep Learning"},
	"Python Developer": {"Python", "AWS", "Kubernetes", "Docker", "Lambda"},
	"Data Scientist":   {"Python", "Machine Learning", "R", "SQL", "Data Analysis"},
}

var InterviewTypes = []string{"Conceptual", "Behavioral", "Technical"}

func SkillsFor(jobRole string) []string {
	return JobRoleSkills[jobRole]
}

func ValidJobRole(jobRole string) bool {
	_, ok := JobRoleSkills[jobRole]
	return ok
}

func ValidInterviewType(typ string) bool {
	for _, t := range InterviewTypes {
		if t == typ {
			return true
		}
	}
	return false
}

func IsBehavioral(typ string) bool {
	return strings.EqualFold(typ, "Behavioral")
}
