package services

import (
	"math"
	"time"

	"github.com/yeremiapane/junkeats-app/models"
)

// DeliveryTimeline simulates a delivery: Total is split evenly between the
// transitions of models.DeliveryStages.
type DeliveryTimeline struct {
	Total time.Duration
}

func (t DeliveryTimeline) StageDuration() time.Duration {
	return t.Total / time.Duration(len(models.DeliveryStages)-1)
}

func stageIndex(status string) int {
	for i, st := range models.DeliveryStages {
		if st == status {
			return i
		}
	}
	return -1
}

// Progress is where a delivery stands at a moment.
type Progress struct {
	StageIndex       int     `json:"stage_index"`
	Status           string  `json:"status"`
	Percent          float64 `json:"progress"`
	MinutesRemaining int     `json:"minutes_remaining"`
	Delivered        bool    `json:"delivered"`
}

// At derives the progress of a delivery placed at placed.
func (t DeliveryTimeline) At(placed, now time.Time) Progress {
	last := len(models.DeliveryStages) - 1

	elapsed := now.Sub(placed)
	if elapsed < 0 {
		elapsed = 0
	}
	if t.Total <= 0 || elapsed >= t.Total {
		return final()
	}

	idx := int(elapsed / t.StageDuration())
	if idx > last {
		idx = last
	}

	percent := math.Min(float64(elapsed)/float64(t.Total)*100, 100)
	remaining := t.Total - elapsed

	return Progress{
		StageIndex:       idx,
		Status:           models.DeliveryStages[idx],
		Percent:          math.Round(percent*100) / 100,
		MinutesRemaining: int(math.Ceil(remaining.Minutes())),
		Delivered:        false,
	}
}

func final() Progress {
	last := len(models.DeliveryStages) - 1
	return Progress{
		StageIndex: last,
		Status:     models.DeliveryStages[last],
		Percent:    100,
		Delivered:  true,
	}
}

// TrackingView is what the tracking page renders.
type TrackingView struct {
	OrderID       string    `json:"order_id"`
	Stages        []string  `json:"stages"`
	PlacementTime time.Time `json:"placement_time"`
	Progress
}

func newTrackingView(order *models.Order, p Progress) *TrackingView {
	return &TrackingView{
		OrderID:       order.ID,
		Stages:        models.DeliveryStages,
		PlacementTime: order.PlacementTime,
		Progress:      p,
	}
}
