package passes

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qr-event/checkin/internal/models"
	"github.com/qr-event/checkin/pkg/response"
)

// DefaultActivityPageSize is the number of events returned by the status log endpoint.
const DefaultActivityPageSize = 20

// ScanRequest is the body for POST /api/scan.
type ScanRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

// ScanResult is the data part of a scan response.
type ScanResult struct {
	Reason  Reason                    `json:"reason,omitempty"`
	Student *models.ParticipantStatus `json:"student,omitempty"`
}

// Handler handles pass and check-in HTTP endpoints.
type Handler struct {
	engine   *Engine
	pageSize int
	logger   *zap.Logger
}

// NewHandler creates a passes handler. pageSize bounds the status log; <= 0 uses the default.
func NewHandler(engine *Engine, pageSize int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = DefaultActivityPageSize
	}
	return &Handler{engine: engine, pageSize: pageSize, logger: logger}
}

// Register mounts the check-in routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/student/:id/generate-pass", h.GeneratePass)
	r.POST("/scan", h.Scan)
	r.GET("/student/:id", h.GetStudent)
	r.POST("/student/:id/refresh", h.Refresh)
	r.GET("/students", h.ListStudents)
	r.GET("/status-log", h.StatusLog)
	r.GET("/stats", h.Stats)
	r.POST("/reset-data", h.Reset)
}

// GeneratePass handles POST /api/student/:id/generate-pass.
func (h *Handler) GeneratePass(c *gin.Context) {
	pass, err := h.engine.IssuePass(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "student not found")
			return
		}
		h.logger.Error("generate pass failed", zap.Error(err), zap.String("student_id", c.Param("id")))
		response.Internal(c, "failed to generate QR code")
		return
	}
	response.OK(c, gin.H{
		"student":          pass.Participant,
		"pass_id":          pass.Credential.Token,
		"qr_data":          pass.Payload,
		"qr_code_data_url": pass.QRCodeDataURL,
		"generated_at":     pass.IssuedAt,
	})
}

// Scan handles POST /api/scan. Unknown students and undecodable payloads are protocol
// errors; stale and already used passes are reported with success=false.
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid QR code format")
		return
	}

	outcome, err := h.engine.Scan(c.Request.Context(), req.QRData)
	switch {
	case errors.Is(err, ErrMalformedCredential):
		response.BadRequest(c, "Invalid QR code format")
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Invalid QR code: Student not found")
		return
	case errors.Is(err, ErrInvalidCredential):
		response.Rejected(c, "Invalid QR code: Pass not generated or expired", ScanResult{Reason: ReasonInvalidCredential})
		return
	case err != nil:
		h.logger.Error("scan failed", zap.Error(err))
		response.Internal(c, "scan failed")
		return
	}

	result := ScanResult{Reason: outcome.Reason, Student: &outcome.Participant}
	if !outcome.Success {
		response.Rejected(c, outcome.Message, result)
		return
	}
	response.OKMessage(c, outcome.Message, result)
}

// GetStudent handles GET /api/student/:id.
func (h *Handler) GetStudent(c *gin.Context) {
	st, err := h.engine.Participant(c.Param("id"))
	if err != nil {
		response.NotFound(c, "student not found")
		return
	}
	response.OK(c, st)
}

// Refresh handles POST /api/student/:id/refresh (client polling for entry).
func (h *Handler) Refresh(c *gin.Context) {
	st, err := h.engine.Refresh(c.Param("id"))
	if err != nil {
		response.NotFound(c, "student not found")
		return
	}
	response.OK(c, st)
}

// ListStudents handles GET /api/students.
func (h *Handler) ListStudents(c *gin.Context) {
	response.OK(c, gin.H{"students": h.engine.Roster()})
}

// StatusLog handles GET /api/status-log.
func (h *Handler) StatusLog(c *gin.Context) {
	response.OK(c, gin.H{"logs": h.engine.RecentActivity(h.pageSize)})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(c *gin.Context) {
	response.OK(c, h.engine.Stats())
}

// Reset handles POST /api/reset-data. Intended for demos and tests.
func (h *Handler) Reset(c *gin.Context) {
	h.engine.Reset()
	response.OKMessage(c, "Data reset successfully", nil)
}
