package metrics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DateFormat is the wire format for report dates.
const DateFormat = "2006-01-02"

// Row is one repository's flattened summary for a tabular sink.
type Row struct {
	Name   string
	Date   string
	Fields map[string]float64
}

// Flatten projects an aggregated repository node into a flat record: one
// field per metric id and statistic, raw values excluded.
func Flatten(name string, node *Node, now time.Time) Row {
	row := Row{
		Name:   name,
		Date:   now.Format(DateFormat),
		Fields: make(map[string]float64),
	}

	for id, value := range node.Metrics {
		agg, ok := value.(*Aggregated)
		if !ok {
			continue
		}
		for _, stat := range statFields {
			v, _ := agg.Stat(stat)
			row.Fields[fmt.Sprintf("%s_%s", id, stat)] = v
		}
	}

	return row
}

// SeriesTarget names one (metric, statistic) pair to extract as a
// time-series point.
type SeriesTarget struct {
	Metric string
	Stat   string
}

// DefaultSeriesTargets is the fixed set of metrics pushed to the
// time-series backend.
var DefaultSeriesTargets = []SeriesTarget{
	{"issue_count", "count"},
	{"time_to_contact", "mean"},
	{"time_to_contact_pr", "mean"},
	{"time_to_close", "mean"},
}

// Point is one time-series observation for an external metrics backend.
type Point struct {
	Metric    string
	Type      string
	Timestamp time.Time
	Value     float64
	Tags      []string
}

// ExtractSeries pulls the configured statistics off an aggregated
// repository node. A repository legitimately may have no observations for
// a requested metric in a given window; absence is logged and skipped.
func ExtractSeries(node *Node, org, repo string, targets []SeriesTarget, now time.Time) []Point {
	var points []Point

	for _, target := range targets {
		value, ok := node.Metrics[target.Metric]
		if !ok {
			log.Debug().
				Str("metric", target.Metric).
				Str("repo", repo).
				Msg("Metric absent for repository, skipping series point")
			continue
		}

		agg, isAgg := value.(*Aggregated)
		if !isAgg {
			continue
		}

		stat, ok := agg.Stat(target.Stat)
		if !ok {
			log.Warn().
				Str("metric", target.Metric).
				Str("stat", target.Stat).
				Msg("Unknown statistic requested for series extraction")
			continue
		}

		points = append(points, Point{
			Metric:    fmt.Sprintf("library.%s.%s", target.Metric, target.Stat),
			Type:      "gauge",
			Timestamp: now,
			Value:     stat,
			Tags: []string{
				"org:" + org,
				fmt.Sprintf("repo:%s/%s", org, repo),
				"type:helper",
			},
		})
	}

	return points
}
