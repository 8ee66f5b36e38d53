package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dx-metrics/internal/metrics"

	"github.com/rs/zerolog/log"
)

// DatadogConfig holds the time-series sink settings.
type DatadogConfig struct {
	APIKey string

	// BaseURL overrides the Datadog API endpoint, mainly for tests.
	BaseURL string
}

const defaultDatadogBaseURL = "https://api.datadoghq.com"

// DatadogSink submits extracted metric points as gauge series.
type DatadogSink struct {
	cfg        DatadogConfig
	httpClient *http.Client
}

// NewDatadogSink builds a time-series sink.
func NewDatadogSink(cfg DatadogConfig) *DatadogSink {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDatadogBaseURL
	}
	return &DatadogSink{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type seriesDTO struct {
	Metric string       `json:"metric"`
	Type   string       `json:"type"`
	Points [][2]float64 `json:"points"`
	Tags   []string     `json:"tags"`
}

// PublishPoints submits every point in one batch. An empty batch is a
// no-op, not an error.
func (d *DatadogSink) PublishPoints(ctx context.Context, points []metrics.Point) error {
	if len(points) == 0 {
		log.Debug().Msg("No series points to publish")
		return nil
	}

	series := make([]seriesDTO, 0, len(points))
	for _, p := range points {
		series = append(series, seriesDTO{
			Metric: p.Metric,
			Type:   p.Type,
			Points: [][2]float64{{float64(p.Timestamp.Unix()), p.Value}},
			Tags:   p.Tags,
		})
	}

	body, err := json.Marshal(map[string]any{"series": series})
	if err != nil {
		return fmt.Errorf("encoding series: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.cfg.BaseURL+"/api/v1/series", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("DD-API-KEY", d.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submitting series: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("datadog API returned status %d", resp.StatusCode)
	}

	log.Info().Int("points", len(points)).Msg("Published series points")
	return nil
}
