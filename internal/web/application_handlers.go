package web

import (
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/coverletter"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type generateCoverLetterRequest struct {
	MaxWords *int   `json:"maxWords" validate:"omitempty,min=80,max=400"`
	Language string `json:"language"`
}

type saveCoverLetterRequest struct {
	CoverLetter *string `json:"coverLetter" validate:"required"`
}

type draftResponse struct {
	ID          string `json:"id"`
	CoverLetter string `json:"coverLetter"`
	UpdatedAt   string `json:"updatedAt"`
}

func toDraftResponse(draft *entities.ApplicationDraft) *draftResponse {
	if draft == nil {
		return nil
	}
	return &draftResponse{
		ID:          draft.ID,
		CoverLetter: draft.CoverLetter,
		UpdatedAt:   draft.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (h *handlers) computeMatch(c *gin.Context) {
	result, err := h.Matcher.Compute(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"score":     result.Score,
		"reasons":   result.Reasons,
		"breakdown": result.Breakdown,
	})
}

func (h *handlers) getCoverLetter(c *gin.Context) {
	draft, err := h.CoverLetters.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": toDraftResponse(draft)})
}

func (h *handlers) generateCoverLetter(c *gin.Context) {
	var request generateCoverLetterRequest
	if !h.bindOptionalJSON(c, &request) {
		return
	}

	language, err := coverletter.ParseLanguage(request.Language)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
		return
	}

	opts := coverletter.Options{
		MaxWords: lo.FromPtrOr(request.MaxWords, coverletter.DefaultWords),
		Language: language,
	}

	draft, maxWords, err := h.CoverLetters.Generate(c.Request.Context(), currentUserID(c), c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": toDraftResponse(draft), "maxWords": maxWords})
}

func (h *handlers) saveCoverLetter(c *gin.Context) {
	var request saveCoverLetterRequest
	if err := c.ShouldBindJSON(&request); err != nil || h.validate.Struct(request) != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
		return
	}

	draft, err := h.CoverLetters.Save(c.Request.Context(), currentUserID(c), c.Param("id"), *request.CoverLetter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": toDraftResponse(draft)})
}

// bindOptionalJSON decodes and validates the body when there is one. An empty
// body leaves target untouched.
func (h *handlers) bindOptionalJSON(c *gin.Context, target any) bool {
	body, err := c.GetRawData()
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
		return false
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err = json.Unmarshal(body, target); err != nil {
			abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
			return false
		}
	}
	if err = h.validate.Struct(target); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
		return false
	}
	return true
}

func (h *handlers) summary(c *gin.Context) {
	days := 0
	if raw, present := c.GetQuery("days"); present {
		parsed, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || parsed <= 0 {
			abortWithCode(c, http.StatusBadRequest, CodeInvalidQuery)
			return
		}
		days = parsed
	}

	summary, err := h.Usage.Summary(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		OK bool `json:"ok"`
		services.Summary
	}{OK: true, Summary: summary})
}

func (h *handlers) health(c *gin.Context) {
	if h.Database != nil {
		if err := h.Database.Ping(); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
			return
		}
	}

	users, err := h.Users.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}
