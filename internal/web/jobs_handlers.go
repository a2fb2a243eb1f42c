package web

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/repositories"
	"github.com/maxaizer/job-assistant/internal/services"
	"github.com/samber/lo"
	"net/http"
	"strings"
	"time"
)

const defaultPageSize = 20

type jobListItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       *string   `json:"location"`
	SkillsRequired []string  `json:"skillsRequired"`
	URL            *string   `json:"url"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toListItem(job entities.Job, _ int) jobListItem {
	return jobListItem{
		ID:             job.ID,
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		SkillsRequired: job.Skills(),
		URL:            job.URL,
		CreatedAt:      job.CreatedAt,
	}
}

func (h *handlers) listJobs(c *gin.Context) {
	filter := repositories.JobFilter{Page: 1, PageSize: defaultPageSize}
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidQuery)
		return
	}
	filter.Q = strings.TrimSpace(filter.Q)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Skill = strings.ToLower(strings.TrimSpace(filter.Skill))

	if err := h.validate.Struct(filter); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidQuery)
		return
	}

	jobs, total, err := h.Jobs.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
		"items":    lo.Map(jobs, toListItem),
	})
}

func (h *handlers) getJob(c *gin.Context) {
	job, err := h.Jobs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if job == nil {
		abortWithCode(c, http.StatusNotFound, CodeJobNotFound)
		return
	}
	if job.SkillsRequired == nil {
		job.SkillsRequired = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "job": job})
}

// ingestJobs stores the JSON array in the body, or pulls the configured feed
// when the body is empty.
func (h *handlers) ingestJobs(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
		return
	}

	var report services.IngestReport
	if len(strings.TrimSpace(string(body))) == 0 {
		if h.Feed == nil {
			abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
			return
		}
		report, err = h.Ingester.IngestSource(c.Request.Context(), h.Feed)
	} else {
		items, decodeErr := feed.Decode(body)
		if decodeErr != nil {
			abortWithCode(c, http.StatusBadRequest, CodeInvalidBody)
			return
		}
		report, err = h.Ingester.Ingest(c.Request.Context(), items)
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		OK bool `json:"ok"`
		services.IngestReport
	}{OK: true, IngestReport: report})
}
