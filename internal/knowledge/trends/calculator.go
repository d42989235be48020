// internal/knowledge/trends/calculator.go

// Package trends derives topic activity trajectories from tag frequencies
// over the two most recent 30-day windows.
package trends

import (
	"sort"
	"time"

	"knowledge-engine/internal/models"
)

// Calculator counts tag occurrences over two trailing windows and classifies
// each tag's trajectory.
type Calculator struct {
	windowDays   int
	ratio        float64
	minFrequency int
	maxTrends    int
	now          func() time.Time
}

// NewCalculator builds a calculator; zero arguments fall back to the
// defaults (30-day windows, 1.5x ratio, minimum combined frequency 3,
// top 10 results).
func NewCalculator(windowDays int, ratio float64, minFrequency, maxTrends int) *Calculator {
	if windowDays <= 0 {
		windowDays = 30
	}
	if ratio <= 0 {
		ratio = 1.5
	}
	if minFrequency <= 0 {
		minFrequency = 3
	}
	if maxTrends <= 0 {
		maxTrends = 10
	}
	return &Calculator{
		windowDays:   windowDays,
		ratio:        ratio,
		minFrequency: minFrequency,
		maxTrends:    maxTrends,
		now:          time.Now,
	}
}

type tagWindow struct {
	recent int
	older  int
}

// Calculate tallies each tag's occurrences in the recent window (now minus
// one window length) and the older window (the window before that), keeps
// tags whose combined count clears the minimum, and classifies the
// trajectory by comparing the windows at the configured ratio.
func (c *Calculator) Calculate(items []models.KnowledgeItem) []models.TopicTrend {
	now := c.now()
	recentStart := now.AddDate(0, 0, -c.windowDays)
	olderStart := now.AddDate(0, 0, -2*c.windowDays)

	counts := make(map[string]*tagWindow)
	for _, item := range items {
		var bucket int
		switch {
		case !item.CreatedAt.Before(recentStart):
			bucket = 0
		case !item.CreatedAt.Before(olderStart):
			bucket = 1
		default:
			continue
		}
		for _, tag := range item.Tags {
			w, ok := counts[tag]
			if !ok {
				w = &tagWindow{}
				counts[tag] = w
			}
			if bucket == 0 {
				w.recent++
			} else {
				w.older++
			}
		}
	}

	var trends []models.TopicTrend
	for tag, w := range counts {
		total := w.recent + w.older
		if total < c.minFrequency {
			continue
		}
		trends = append(trends, models.TopicTrend{
			Topic:     tag,
			Frequency: total,
			Trend:     c.classify(w.recent, w.older),
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Frequency != trends[j].Frequency {
			return trends[i].Frequency > trends[j].Frequency
		}
		return trends[i].Topic < trends[j].Topic
	})

	if len(trends) > c.maxTrends {
		trends = trends[:c.maxTrends]
	}
	return trends
}

func (c *Calculator) classify(recent, older int) models.TrendDirection {
	switch {
	case float64(recent) > float64(older)*c.ratio:
		return models.TrendIncreasing
	case float64(older) > float64(recent)*c.ratio:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}
