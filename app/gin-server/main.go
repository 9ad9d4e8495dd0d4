package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/agents"
	"github.com/preplab/interviewd/internal/api/handlers"
	"github.com/preplab/interviewd/internal/api/middleware"
	"github.com/preplab/interviewd/internal/api/routes"
	"github.com/preplab/interviewd/internal/logger"
	"github.com/preplab/interviewd/internal/providers/llm"
	"github.com/preplab/interviewd/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()

	if cfg.GCPProject == "" {
		log.Fatal("GOOGLE_CLOUD_PROJECT environment variable is not set")
	}

	ctx := context.Background()
	vertex, err := llm.NewVertexGemini(ctx, cfg.GCPProject, cfg.GCPLocation, cfg.ModelName)
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	defer vertex.Close()

	oracle := llm.WithTimeout(vertex, cfg.OracleTimeout)
	rng := agents.NewRand(time.Now().UnixNano())

	svc := services.NewInterviewService(services.InterviewDeps{
		Store:         services.NewSessionStore(),
		Questions:     agents.NewQuestionGenerator(oracle, log),
		Intents:       agents.NewIntentDetector(oracle, log),
		Evaluator:     agents.NewEvaluator(oracle, log),
		FollowUps:     agents.NewFollowUpPlanner(oracle, rng, log),
		Hints:         agents.NewHintAgent(oracle, log),
		Recruiter:     agents.NewRecruiter(oracle, rng, log),
		Advisor:       agents.NewImprovementAdvisor(oracle, log),
		Rand:          rng,
		Logger:        log,
		QuestionCount: cfg.QuestionCount,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(svc),
	})

	log.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
