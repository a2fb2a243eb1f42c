package web

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/pkg/errors"
	"io"
	"net/http"
)

const (
	uploadField = "file"
	// multipart framing on top of the largest accepted file
	uploadOverhead = 1 << 20
)

func (h *handlers) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxResumeBytes+uploadOverhead)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithCode(c, http.StatusBadRequest, CodeFileTooLarge)
			return
		}
		abortWithCode(c, http.StatusBadRequest, CodeMissingFile)
		return
	}
	if header.Size > services.MaxResumeBytes {
		abortWithCode(c, http.StatusBadRequest, CodeFileTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, errors.Wrap(err, "open uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxResumeBytes+1))
	if err != nil {
		fail(c, errors.Wrap(err, "read uploaded file"))
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "resume.pdf"
	}

	result, err := h.Resumes.Upload(c.Request.Context(), currentUserID(c), filename, data)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		OK bool `json:"ok"`
		services.UploadResult
	}{OK: true, UploadResult: result})
}

func (h *handlers) analyzeResume(c *gin.Context) {
	result, err := h.Resumes.Analyze(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		OK bool `json:"ok"`
		services.AnalyzeResult
	}{OK: true, AnalyzeResult: result})
}
