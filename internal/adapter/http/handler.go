package http

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-analyzer/internal/adapter/repository"
	"resume-analyzer/internal/domain"
	"resume-analyzer/internal/model"
	"resume-analyzer/internal/pdf"
	"resume-analyzer/internal/usecase"
	"resume-analyzer/internal/validate"
	"resume-analyzer/pkg/ai"
	"resume-analyzer/pkg/report"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResumeStore is the metadata persistence the handler needs.
type ResumeStore interface {
	Save(ctx context.Context, res *domain.Resume) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Resume, error)
}

// ReportRenderer converts a rendered report page to PDF bytes.
type ReportRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	resumes   ResumeStore
	gateway   usecase.PaymentGateway
	history   usecase.PaymentHistory
	generator ai.Generator
	inspector pdf.Inspector
	renderer  ReportRenderer
	logger    *zap.Logger

	uploadsDir string
	baseURL    string
}

func NewHandler(resumes ResumeStore, gateway usecase.PaymentGateway, history usecase.PaymentHistory, generator ai.Generator, inspector pdf.Inspector, renderer ReportRenderer, uploadsDir, baseURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		resumes:    resumes,
		gateway:    gateway,
		history:    history,
		generator:  generator,
		inspector:  inspector,
		renderer:   renderer,
		logger:     logger,
		uploadsDir: uploadsDir,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Register mounts all API routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/resumes", h.UploadResume)
	app.Get("/api/resumes/:id", h.GetResume)
	app.Get("/api/resumes/:id/report", h.GetReport)
	app.Post("/api/feedback", h.GenerateFeedback)
	app.Post("/api/payments/intent", h.CreatePaymentIntent)
	app.Post("/api/payments/confirm", h.ConfirmPayment)
	app.Get("/api/payments/history", h.ListPayments)
	app.Post("/api/payments/history", h.AppendPayment)
}

// UploadResume accepts the multipart field "resume", re-enforcing the type
// and size limits before anything touches disk, then validates the stored
// file structurally.
func (h *Handler) UploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing resume file"})
	}

	mime := file.Header.Get("Content-Type")
	if !validate.FileType(mime, []string{validate.PDFMimeType}) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only PDF files are accepted"})
	}
	if !validate.FileSize(file.Size, validate.MaxResumeSize) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file exceeds the 5 MiB limit"})
	}

	id := uuid.New()
	path := filepath.Join(h.uploadsDir, id.String()+".pdf")
	if err := c.SaveFile(file, path); err != nil {
		h.logger.Error("saving upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store file"})
	}

	info, err := h.inspector.Inspect(path)
	if err != nil {
		_ = os.Remove(path)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "file is not a valid PDF"})
	}

	res := &domain.Resume{
		ID:         id,
		UserID:     c.FormValue("userId"),
		FileName:   file.Filename,
		FilePath:   path,
		FileURL:    h.baseURL + "/api/resumes/" + id.String(),
		FileSize:   file.Size,
		Pages:      info.Pages,
		UploadedAt: time.Now().UTC(),
	}
	if err := h.resumes.Save(c.Context(), res); err != nil {
		h.logger.Error("saving resume row failed", zap.String("resume_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store metadata"})
	}

	h.logger.Info("resume uploaded",
		zap.String("resume_id", id.String()),
		zap.Int64("size", file.Size),
		zap.Int("pages", info.Pages),
	)
	return c.JSON(fiber.Map{"fileUrl": res.FileURL})
}

// GetResume serves the stored PDF for preview.
func (h *Handler) GetResume(c *fiber.Ctx) error {
	res, ok := h.lookupResume(c)
	if !ok {
		return nil
	}
	c.Set(fiber.HeaderContentType, validate.PDFMimeType)
	return c.SendFile(res.FilePath)
}

// GetReport generates feedback for the stored resume and returns it as a
// printable PDF report.
func (h *Handler) GetReport(c *fiber.Ctx) error {
	res, ok := h.lookupResume(c)
	if !ok {
		return nil
	}

	text, err := h.generator.Generate(c.Context(), ai.FeedbackPrompt(res.FileURL))
	if err != nil {
		return h.serviceError(c, "feedback generation failed", err)
	}

	html, err := report.RenderHTML(report.Data{DocumentRef: res.FileURL, Feedback: strings.TrimSpace(text)})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not render report"})
	}

	pdfBytes, err := h.renderer.RenderHTMLToPDF(c.Context(), html)
	if err != nil {
		h.logger.Error("report rendering failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not render report"})
	}

	c.Set(fiber.HeaderContentType, validate.PDFMimeType)
	return c.Send(pdfBytes)
}

type feedbackReq struct {
	FileURL string `json:"fileUrl"`
}

// GenerateFeedback runs the generator for an already uploaded document. An
// empty completion is reported as null, not as an error.
func (h *Handler) GenerateFeedback(c *fiber.Ctx) error {
	var req feedbackReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.FileURL) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fileUrl is required"})
	}

	text, err := h.generator.Generate(c.Context(), ai.FeedbackPrompt(req.FileURL))
	if err != nil {
		return h.serviceError(c, "feedback generation failed", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return c.JSON(fiber.Map{"feedback": nil})
	}
	return c.JSON(fiber.Map{"feedback": text})
}

type intentReq struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
}

func (h *Handler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req intentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be positive"})
	}
	if !h.gateway.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "payment gateway not initialized"})
	}

	intent, err := h.gateway.CreateIntent(c.Context(), req.UserID, req.Amount)
	if err != nil {
		return h.serviceError(c, "intent creation failed", err)
	}
	return c.JSON(fiber.Map{"id": intent.ID, "clientSecret": intent.ClientSecret})
}

type confirmReq struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

func (h *Handler) ConfirmPayment(c *fiber.Ctx) error {
	var req confirmReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.PaymentIntentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "paymentIntentId is required"})
	}
	if !h.gateway.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "payment gateway not initialized"})
	}

	if err := h.gateway.Confirm(c.Context(), req.PaymentIntentID, req.PaymentMethodID); err != nil {
		var extErr *domain.ExternalServiceError
		if errors.As(err, &extErr) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": extErr.Message})
		}
		return h.serviceError(c, "confirmation failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListPayments(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
	}

	records, err := h.history.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("listing payment history failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load history"})
	}
	if records == nil {
		records = []domain.PaymentRecord{}
	}
	return c.JSON(records)
}

// AppendPayment validates the record against the payment record schema
// before it is accepted into the store.
func (h *Handler) AppendPayment(c *fiber.Ctx) error {
	var raw map[string]interface{}
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := model.ValidatePaymentRecordMap(raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rec domain.PaymentRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	if err := h.history.Append(c.Context(), rec); err != nil {
		h.logger.Error("appending payment record failed",
			zap.String("payment_intent_id", rec.IntentID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store record"})
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *Handler) lookupResume(c *fiber.Ctx) (*domain.Resume, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
		return nil, false
	}
	res, err := h.resumes.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resume not found"})
			return nil, false
		}
		h.logger.Error("loading resume failed", zap.String("resume_id", id.String()), zap.Error(err))
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load resume"})
		return nil, false
	}
	return res, true
}

func (h *Handler) serviceError(c *fiber.Ctx, msg string, err error) error {
	h.logger.Warn(msg, zap.Error(err))

	var extErr *domain.ExternalServiceError
	if errors.As(err, &extErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": extErr.Message})
	}
	var nerr *domain.NetworkError
	if errors.As(err, &nerr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream unavailable"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}
