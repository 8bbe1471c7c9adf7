package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/herdsight/herdsight-backend/internal/pkg/errors"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/requestdata"
	"github.com/herdsight/herdsight-backend/internal/services"
)

const (
	msgUnauthorized = "Unauthorized. Please login first."
	msgNotFound     = "Classification not found or access denied"
)

type ClassificationHandler struct {
	log                   *logger.Logger
	classificationService services.ClassificationService
}

func NewClassificationHandler(log *logger.Logger, classificationService services.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{
		log:                   log.With("handler", "ClassificationHandler"),
		classificationService: classificationService,
	}
}

func (h *ClassificationHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	filter := repos.ClassificationFilter{
		AnimalType: c.Query("animalType"),
		FarmID:     c.Query("farmId"),
		Source:     c.Query("source"),
	}
	// Non-numeric page/limit fall back to defaults instead of failing.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.classificationService.List(c.Request.Context(), rd.UserID, filter, page, limit)
	if err != nil {
		h.log.Error("list failed", "error", err, "user_id", rd.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to fetch classifications")
		return
	}

	respondOK(c, gin.H{
		"success":    true,
		"data":       result.Data,
		"pagination": result.Pagination,
	})
}

func (h *ClassificationHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req struct {
		AnimalType string  `json:"animalType"`
		ImageURL   *string `json:"imageUrl"`
		ImagePath  string  `json:"imagePath"`

		BodyLength      float64  `json:"bodyLength"`
		HeightAtWithers float64  `json:"heightAtWithers"`
		ChestWidth      float64  `json:"chestWidth"`
		RumpAngle       float64  `json:"rumpAngle"`
		BodyCondition   *float64 `json:"bodyCondition"`

		OverallScore      *float64 `json:"overallScore"`
		BreedScore        *float64 `json:"breedScore"`
		ConformationScore *float64 `json:"conformationScore"`
		Confidence        *float64 `json:"confidence"`

		Breed  string   `json:"breed"`
		Age    *int     `json:"age"`
		Weight *float64 `json:"weight"`
		Gender string   `json:"gender"`

		FarmID        *string `json:"farmId"`
		FarmName      string  `json:"farmName"`
		Location      string  `json:"location"`
		AnalysisNotes string  `json:"analysisNotes"`
		Source        string  `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AnimalType == "" || req.ImageURL == nil || req.OverallScore == nil {
		respondError(c, http.StatusBadRequest, "Missing required fields: animalType, imageUrl, overallScore")
		return
	}

	input := services.CreateClassificationInput{
		AnimalType:        req.AnimalType,
		ImageURL:          req.ImageURL,
		ImagePath:         req.ImagePath,
		BodyLength:        req.BodyLength,
		HeightAtWithers:   req.HeightAtWithers,
		ChestWidth:        req.ChestWidth,
		RumpAngle:         req.RumpAngle,
		BodyCondition:     req.BodyCondition,
		OverallScore:      req.OverallScore,
		BreedScore:        req.BreedScore,
		ConformationScore: req.ConformationScore,
		Confidence:        req.Confidence,
		Breed:             req.Breed,
		Gender:            req.Gender,
		Age:               req.Age,
		Weight:            req.Weight,
		FarmID:            req.FarmID,
		FarmName:          req.FarmName,
		Location:          req.Location,
		AnalysisNotes:     req.AnalysisNotes,
		Source:            req.Source,
	}

	record, err := h.classificationService.Create(c.Request.Context(), rd.UserID, input)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			respondError(c, http.StatusBadRequest, "Invalid farm ID provided. Please check your farm information.")
			return
		}
		h.log.Error("create failed", "error", err, "user_id", rd.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to save classification")
		return
	}

	respondOK(c, gin.H{
		"success": true,
		"data":    record,
		"message": "Classification saved successfully",
	})
}

func (h *ClassificationHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	record, err := h.classificationService.GetByID(c.Request.Context(), rd.UserID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, msgNotFound)
			return
		}
		h.log.Error("get failed", "error", err, "user_id", rd.UserID, "id", id)
		respondError(c, http.StatusInternalServerError, "Failed to fetch classification")
		return
	}

	respondOK(c, gin.H{
		"success": true,
		"data":    record,
	})
}

func (h *ClassificationHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	var patch services.ClassificationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.classificationService.Update(c.Request.Context(), rd.UserID, id, patch)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, msgNotFound)
			return
		}
		h.log.Error("update failed", "error", err, "user_id", rd.UserID, "id", id)
		respondError(c, http.StatusInternalServerError, "Failed to update classification")
		return
	}

	respondOK(c, gin.H{
		"success": true,
		"data":    record,
		"message": "Classification updated successfully",
	})
}

func (h *ClassificationHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	if err := h.classificationService.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusNotFound, msgNotFound)
			return
		}
		h.log.Error("delete failed", "error", err, "user_id", rd.UserID, "id", id)
		respondError(c, http.StatusInternalServerError, "Failed to delete classification")
		return
	}

	respondOK(c, gin.H{
		"success": true,
		"message": "Classification deleted successfully",
	})
}

func (h *ClassificationHandler) Clear(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": msgUnauthorized})
		return
	}

	n, err := h.classificationService.ClearAll(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("clear failed", "error", err, "user_id", rd.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to clear classifications"})
		return
	}

	respondOK(c, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Successfully cleared %d classifications", n),
		"deletedCount": n,
	})
}
