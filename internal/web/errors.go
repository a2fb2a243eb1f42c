package web

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net/http"
)

const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeNoResume          = "NO_RESUME"
	CodeNoCandidateSkills = "NO_CANDIDATE_SKILLS"
	CodeInvalidBody       = "INVALID_BODY"
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeOverWordLimit     = "OVER_WORD_LIMIT"
	CodeEmptyCompletion   = "EMPTY_COMPLETION"
	CodeInvalidProfile    = "INVALID_PROFILE"
	CodeAiUnavailable     = "AI_UNAVAILABLE"
	CodeMissingFile       = "MISSING_FILE"
	CodeEmptyFile         = "EMPTY_FILE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeNotPDF            = "NOT_PDF"
	CodeInvalidSignature  = "INVALID_PDF_SIGNATURE"
	CodeInternal          = "INTERNAL"
)

var codesByError = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrJobNotFound, http.StatusNotFound, CodeJobNotFound},
	{services.ErrNoResume, http.StatusUnprocessableEntity, CodeNoResume},
	{services.ErrNoCandidateSkills, http.StatusUnprocessableEntity, CodeNoCandidateSkills},
	{services.ErrEmptyCoverLetter, http.StatusBadRequest, CodeInvalidBody},
	{services.ErrEmptyCompletion, http.StatusBadGateway, CodeEmptyCompletion},
	{services.ErrInvalidProfile, http.StatusBadGateway, CodeInvalidProfile},
	{services.ErrInvalidDays, http.StatusBadRequest, CodeInvalidQuery},
	{services.ErrEmptyFile, http.StatusBadRequest, CodeEmptyFile},
	{services.ErrFileTooLarge, http.StatusBadRequest, CodeFileTooLarge},
	{services.ErrNotPDF, http.StatusBadRequest, CodeNotPDF},
	{services.ErrPDFSignature, http.StatusBadRequest, CodeInvalidSignature},
}

func abortWithCode(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": code})
}

// fail maps a service error to its response. Unknown errors are logged and
// answered with a generic 500.
func fail(c *gin.Context, err error) {
	for _, known := range codesByError {
		if errors.Is(err, known.err) {
			abortWithCode(c, known.status, known.code)
			return
		}
	}

	var overLimit *services.OverWordLimitError
	if errors.As(err, &overLimit) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"ok":       false,
			"error":    CodeOverWordLimit,
			"maxWords": overLimit.MaxWords,
			"words":    overLimit.Words,
		})
		return
	}

	var aiErr *services.AiCallError
	if errors.As(err, &aiErr) {
		abortWithCode(c, http.StatusBadGateway, CodeAiUnavailable)
		return
	}

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).
		Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	abortWithCode(c, http.StatusInternalServerError, CodeInternal)
}
