package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"healthpulse/events"
	"healthpulse/extract"
	"healthpulse/ocr"
	"healthpulse/priority"
	"healthpulse/risk"
	"healthpulse/types"
)

// maxUploadBytes caps lab report photos; phone camera JPEGs stay well under this.
const maxUploadBytes = 10 << 20

// RegisterLabRoutes registers lab result endpoints.
func (s *Server) RegisterLabRoutes(r *gin.Engine) {
	g := r.Group("/api/lab")
	g.POST("/upload", s.handleLabUpload)
	g.POST("/manual", s.handleLabManual)
	g.GET("/latest", s.handleLabLatest)
	g.GET("/priority", s.handleLabPriority)
}

// ManualLabRequest is the body of POST /api/lab/manual.
type ManualLabRequest struct {
	UserID      string               `json:"user_id" binding:"required"`
	Measurement types.LabMeasurement `json:"measurement"`
}

// LabResponse is the snapshot plus its derived per-category risk summaries.
type LabResponse struct {
	LabResult   *types.LabResult         `json:"lab_result"`
	Overall     types.RiskCategoryResult `json:"overall"`
	Diabetes    types.RiskCategoryResult `json:"diabetes"`
	Cholesterol types.RiskCategoryResult `json:"cholesterol"`
}

// handleLabUpload accepts a lab report photo, OCRs it, extracts the analyte
// values, and stores the scored snapshot.
// POST /api/lab/upload (multipart: user_id, image)
func (s *Server) handleLabUpload(c *gin.Context) {
	if s.ocr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image recognition is not configured"})
		return
	}

	userID := c.PostForm("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + err.Error()})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + err.Error()})
		return
	}

	text, err := s.ocr.RecognizeText(c.Request.Context(), image)
	if err != nil {
		if errors.Is(err, ocr.ErrNoText) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no readable text found in the image"})
			return
		}
		s.log.Error("ocr failed", "user_id", userID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "text recognition failed"})
		return
	}

	m := extract.Measurement(text)
	if m.IsEmpty() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no lab values recognized in the report"})
		return
	}

	imageURL := ""
	if s.images != nil {
		contentType := fileHeader.Header.Get("Content-Type")
		url, err := s.images.SaveLabImage(c.Request.Context(), userID, image, contentType)
		if err != nil {
			// the snapshot is still worth keeping without the photo
			s.log.Warn("lab image upload failed", "user_id", userID, "error", err)
		} else {
			imageURL = url
		}
	}

	resp, err := s.saveSnapshot(c, userID, m, imageURL, text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store lab result"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleLabManual stores a snapshot the user typed in themselves.
// POST /api/lab/manual
func (s *Server) handleLabManual(c *gin.Context) {
	var req ManualLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Measurement.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one lab value is required"})
		return
	}
	if v, name := firstNegative(req.Measurement); name != "" {
		s.log.Warn("rejected negative lab value", "user_id", req.UserID, "field", name, "value", v)
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " cannot be negative"})
		return
	}

	resp, err := s.saveSnapshot(c, req.UserID, req.Measurement, "", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store lab result"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleLabLatest returns the user's most recent snapshot with derived
// category summaries.
// GET /api/lab/latest?user_id=
func (s *Server) handleLabLatest(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	latest, err := s.labs.GetLatest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lab result"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no lab results yet"})
		return
	}

	m := latest.Measurement()
	c.JSON(http.StatusOK, LabResponse{
		LabResult:   latest,
		Overall:     risk.ScoreOverall(m),
		Diabetes:    risk.ScoreDiabetes(m),
		Cholesterol: risk.ScoreCholesterol(m),
	})
}

// handleLabPriority returns the content focus decision for the user. Users
// with no snapshot get the balanced default rather than an error.
// GET /api/lab/priority?user_id=
func (s *Server) handleLabPriority(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	latest, err := s.labs.GetLatest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lab result"})
		return
	}
	c.JSON(http.StatusOK, priority.Analyze(latest))
}

// saveSnapshot scores the measurement, upserts the user's snapshot, and
// publishes the update event.
func (s *Server) saveSnapshot(c *gin.Context, userID string, m types.LabMeasurement, imageURL, rawText string) (LabResponse, error) {
	overall := risk.ScoreOverall(m)
	diabetes := risk.ScoreDiabetes(m)
	cholesterol := risk.ScoreCholesterol(m)

	snapshot := &types.LabResult{
		ID:                        uuid.New(),
		UserID:                    userID,
		RiskLevel:                 risk.PersistedLevel(overall.Percentage),
		RiskScore:                 overall.Percentage,
		DiabetesRiskPercentage:    diabetes.Percentage,
		CholesterolRiskPercentage: cholesterol.Percentage,
		ImageURL:                  imageURL,
		RawOCRText:                rawText,
	}
	snapshot.SetMeasurement(m)

	stored, err := s.labs.SaveLatest(c.Request.Context(), snapshot)
	if err != nil {
		s.log.Error("lab snapshot save failed", "user_id", userID, "error", err)
		return LabResponse{}, err
	}

	if s.publisher != nil {
		err := s.publisher.PublishLabResultUpdated(events.LabResultUpdated{
			UserID:     userID,
			LabID:      stored.ID.String(),
			RiskLevel:  string(stored.RiskLevel),
			OccurredAt: time.Now(),
		})
		if err != nil {
			s.log.Warn("lab event publish failed", "user_id", userID, "error", err)
		}
	}

	return LabResponse{
		LabResult:   stored,
		Overall:     overall,
		Diabetes:    diabetes,
		Cholesterol: cholesterol,
	}, nil
}

func firstNegative(m types.LabMeasurement) (float64, string) {
	checks := []struct {
		v    *float64
		name string
	}{
		{m.GlucoseFasting, "glucose_fasting"},
		{m.HbA1c, "hba1c"},
		{m.CholesterolTotal, "cholesterol_total"},
		{m.LDL, "ldl"},
		{m.HDL, "hdl"},
		{m.Triglycerides, "triglycerides"},
	}
	for _, ch := range checks {
		if ch.v != nil && *ch.v < 0 {
			return *ch.v, ch.name
		}
	}
	return 0, ""
}
