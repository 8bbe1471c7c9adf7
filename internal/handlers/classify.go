package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/requestdata"
	"github.com/herdsight/herdsight-backend/internal/services"
	"github.com/herdsight/herdsight-backend/internal/types"
	"github.com/herdsight/herdsight-backend/internal/utils"
)

// ClassifyHandler runs the analyze-and-save pipeline: validate the upload,
// analyze it, best-effort resolve the farm, persist the classification. The
// image itself is never retained.
type ClassifyHandler struct {
	log                   *logger.Logger
	userRepo              repos.UserRepo
	analyzer              services.Analyzer
	farmService           services.FarmService
	classificationService services.ClassificationService
	maxUploadBytes        int64
}

func NewClassifyHandler(
	log *logger.Logger,
	userRepo repos.UserRepo,
	analyzer services.Analyzer,
	farmService services.FarmService,
	classificationService services.ClassificationService,
	maxUploadBytes int64,
) *ClassifyHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = utils.DefaultMaxImageBytes
	}
	return &ClassifyHandler{
		log:                   log.With("handler", "ClassifyHandler"),
		userRepo:              userRepo,
		analyzer:              analyzer,
		farmService:           farmService,
		classificationService: classificationService,
		maxUploadBytes:        maxUploadBytes,
	}
}

func (h *ClassifyHandler) Classify(c *gin.Context) {
	ctx := c.Request.Context()
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	// The token only proves the user existed when it was issued. The save
	// below needs the row to still be there, so re-check before doing any
	// analysis work.
	users, err := h.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		h.log.Error("user lookup failed", "error", err, "user_id", rd.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to classify animal image. Please try again.")
		return
	}
	if len(users) == 0 {
		respondError(c, http.StatusUnauthorized, "User not found. Please login again.")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !utils.ValidateImageFile(mimeType, fileHeader.Size, h.maxUploadBytes) {
		respondError(c, http.StatusBadRequest, "Invalid image file. Please upload a valid image (JPEG, PNG, WebP) under 10MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("upload open failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to classify animal image. Please try again.")
		return
	}
	defer file.Close()
	image, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.log.Error("upload read failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to classify animal image. Please try again.")
		return
	}
	if int64(len(image)) > h.maxUploadBytes {
		respondError(c, http.StatusBadRequest, "Invalid image file. Please upload a valid image (JPEG, PNG, WebP) under 10MB.")
		return
	}

	farmID := c.PostForm("farmId")
	farmName := c.PostForm("farmName")
	location := c.PostForm("location")
	source := c.PostForm("source")
	if source == "" {
		source = types.SourceUpload
	}

	analysis := h.analyzer.Analyze(ctx, image, mimeType)

	link := h.farmService.Resolve(ctx, farmID, farmName, location)

	input := services.InputFromAnalysis(analysis, link.IDPtr(), farmName, location, source)
	record, err := h.classificationService.Create(ctx, rd.UserID, input)
	if err != nil {
		h.log.Error("classification save failed", "error", err, "user_id", rd.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to classify animal image. Please try again.")
		return
	}

	respondOK(c, gin.H{
		"success":        true,
		"classification": record,
		"analysis":       analysis,
	})
}
