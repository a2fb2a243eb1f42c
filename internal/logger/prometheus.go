package logger

import (
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const unknownErrorType = "unknown"

var knownErrorTypes = []string{ErrorTypeDb, ErrorTypeAiApi, ErrorTypeFeed, ErrorTypeHttp}

// errorsHook counts error entries by their error_type field. Warnings are
// counted only when tagged, e.g. rejected feed records. Unexpected types are
// folded into "unknown" to keep the label set fixed.
type errorsHook struct {
	counter *prometheus.CounterVec
}

func newErrorsHook(counter *prometheus.CounterVec) *errorsHook {
	for _, errorType := range append(knownErrorTypes, unknownErrorType) {
		counter.WithLabelValues(errorType)
	}
	return &errorsHook{counter: counter}
}

func (h *errorsHook) Fire(entry *log.Entry) error {
	errorType, tagged := entry.Data[ErrorTypeField].(string)
	if !tagged && entry.Level == log.WarnLevel {
		return nil
	}
	if !lo.Contains(knownErrorTypes, errorType) {
		errorType = unknownErrorType
	}

	h.counter.WithLabelValues(errorType).Inc()
	return nil
}

func (h *errorsHook) Levels() []log.Level {
	return []log.Level{
		log.WarnLevel,
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(newErrorsHook(metrics.ErrorsCounter))
}
