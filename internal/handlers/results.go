package handlers

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ovab-go/internal/metrics"
)

type ResultsHandler struct {
	log *zap.Logger
}

func NewResultsHandler(log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{log: log}
}

// Show renders the results table plus charts for whatever the session has
// recorded so far; tests that never ran are listed as such.
func (h *ResultsHandler) Show(c *gin.Context) {
	s, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	report, ok := s.Report()
	if !ok {
		// The session shut down between the middleware lookup and now.
		c.Redirect(http.StatusFound, "/")
		return
	}

	latencyChart := generateLatencyChart(report.Records)
	latencyJSON, err := json.Marshal(latencyChart.JSON())
	if err != nil {
		h.log.Error("Failed to marshal latency chart", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render results")
		return
	}

	accuracyChart := generateAccuracyChart(report.Stats)
	accuracyJSON, err := json.Marshal(accuracyChart.JSON())
	if err != nil {
		h.log.Error("Failed to marshal accuracy chart", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render results")
		return
	}

	csrfToken, _ := c.Get("csrf_token")
	cspNonce, _ := c.Get("csp_nonce")

	c.HTML(http.StatusOK, "results.html", gin.H{
		"Title":           report.Title,
		"Rows":            report.Rows,
		"Score":           fmt.Sprintf("%.0f", report.Score),
		"Stats":           report.Stats,
		"HasTrials":       len(report.Records) > 0,
		"HasTaps":         report.Stats.Hits+report.Stats.Misses > 0,
		"LatencyOptions":  template.JS(latencyJSON),
		"AccuracyOptions": template.JS(accuracyJSON),
		"CSRFToken":       csrfToken,
		"CSPNonce":        cspNonce,
	})
}

func generateLatencyChart(records []metrics.TrialRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Reaction Latency",
			Subtitle: "milliseconds per trial",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "ms",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, 0, len(records))
	items := make([]opts.BarData, 0, len(records))
	for _, rec := range records {
		labels = append(labels, fmt.Sprintf("Trial %d", rec.Index+1))
		items = append(items, opts.BarData{Value: rec.Latency()})
	}

	bar.SetXAxis(labels).AddSeries("Latency", items)
	return bar
}

func generateAccuracyChart(snap metrics.Snapshot) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Pursuit Accuracy"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	pie.AddSeries("Taps", []opts.PieData{
		{Name: "On target", Value: snap.Hits},
		{Name: "Off target", Value: snap.Misses},
	})
	return pie
}
