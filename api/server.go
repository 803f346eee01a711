package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"healthpulse/events"
	"healthpulse/logger"
	"healthpulse/orchestrator"
	"healthpulse/store"
	"healthpulse/types"
)

// ImageSaver stores an uploaded lab report image and returns its URL.
type ImageSaver interface {
	SaveLabImage(ctx context.Context, userID string, image []byte, contentType string) (string, error)
}

// OCRService extracts text from a lab report image.
type OCRService interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// EventPublisher emits lab update events. Publishing failures never fail the
// request that produced them.
type EventPublisher interface {
	PublishLabResultUpdated(event events.LabResultUpdated) error
}

// Runner triggers a personalization cycle.
type Runner interface {
	Run(ctx context.Context, userID string) (types.RunResult, error)
}

// Server holds the controller dependencies. Optional dependencies (images,
// ocr, publisher) may be nil; the affected endpoints degrade explicitly.
type Server struct {
	labs      store.LabResultRepo
	recs      store.RecommendationRepo
	images    ImageSaver
	ocr       OCRService
	publisher EventPublisher
	runner    Runner
	state     *orchestrator.Manager
	log       *logger.Logger
}

// NewServer wires the controllers.
func NewServer(
	labs store.LabResultRepo,
	recs store.RecommendationRepo,
	images ImageSaver,
	ocr OCRService,
	publisher EventPublisher,
	runner Runner,
	state *orchestrator.Manager,
	log *logger.Logger,
) *Server {
	return &Server{
		labs:      labs,
		recs:      recs,
		images:    images,
		ocr:       ocr,
		publisher: publisher,
		runner:    runner,
		state:     state,
		log:       log,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterLabRoutes(r)
	s.RegisterArticleRoutes(r)
	s.RegisterHealthRoutes(r)
	return r
}
