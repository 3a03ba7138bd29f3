package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/models"
)

func TestTimelineStages(t *testing.T) {
	tl := DeliveryTimeline{Total: 20 * time.Second}
	placed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stage := tl.StageDuration()
	require.Equal(t, 20*time.Second/3, stage)

	cases := []struct {
		elapsed time.Duration
		index   int
		status  string
	}{
		{0, 0, models.StatusOrderPlaced},
		{stage - time.Millisecond, 0, models.StatusOrderPlaced},
		{stage, 1, models.StatusPreparing},
		{2 * stage, 2, models.StatusOutForDelivery},
		{20*time.Second - time.Millisecond, 2, models.StatusOutForDelivery},
		{20 * time.Second, 3, models.StatusDelivered},
		{time.Hour, 3, models.StatusDelivered},
		{-time.Minute, 0, models.StatusOrderPlaced},
	}
	for _, c := range cases {
		p := tl.At(placed, placed.Add(c.elapsed))
		assert.Equal(t, c.index, p.StageIndex, "elapsed %s", c.elapsed)
		assert.Equal(t, c.status, p.Status, "elapsed %s", c.elapsed)
	}
}

func TestTimelineProgressAndMinutes(t *testing.T) {
	tl := DeliveryTimeline{Total: 20 * time.Minute}
	placed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	p := tl.At(placed, placed.Add(5*time.Minute))
	assert.Equal(t, 25.0, p.Percent)
	assert.Equal(t, 15, p.MinutesRemaining)
	assert.False(t, p.Delivered)

	p = tl.At(placed, placed.Add(5*time.Minute+30*time.Second))
	assert.Equal(t, 15, p.MinutesRemaining, "remaining minutes round up")

	p = tl.At(placed, placed.Add(25*time.Minute))
	assert.Equal(t, 100.0, p.Percent)
	assert.Equal(t, 0, p.MinutesRemaining)
	assert.True(t, p.Delivered)
}

func TestTrackAdvancesOneStagePerStageDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.place(t, "s1", deliveryRequest())
	stage := f.orders.Timeline.StageDuration()

	view, err := f.orders.Track(ctx, "s1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.StageIndex)
	assert.Equal(t, models.DeliveryStages, view.Stages)

	f.clock.Advance(stage)
	view, err = f.orders.Track(ctx, "s1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.StageIndex)
	assert.Equal(t, models.StatusPreparing, view.Status)

	stored, err := f.orders.Get(ctx, "s1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, stored.Status)

	f.clock.Advance(20 * time.Second)
	view, err = f.orders.TrackLatest(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.Delivered)
	assert.Equal(t, models.StatusDelivered, view.Status)

	// stays delivered on every later read, even if the clock goes back
	f.clock.Advance(-time.Hour)
	view, err = f.orders.Track(ctx, "s1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, view.Status)
	assert.Equal(t, 100.0, view.Percent)

	assert.Equal(t, []string{
		events.OrderPlaced + ":" + models.StatusOrderPlaced,
		events.OrderStatusChanged + ":" + models.StatusPreparing,
		events.OrderStatusChanged + ":" + models.StatusDelivered,
	}, f.events.Types())
}

func TestTrackRejectsOtherSessionsAndDineIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.place(t, "s1", deliveryRequest())

	_, err := f.orders.Track(ctx, "s2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orders.TrackLatest(ctx, "s2")
	assert.ErrorIs(t, err, ErrNoLatestOrder)

	dine := f.place(t, "s3", dineInRequest("T2"))
	_, err = f.orders.Track(ctx, "s3", dine.ID)
	assert.ErrorIs(t, err, ErrNotDelivery)
}

func TestHistoryReconcilesOverdueDeliveries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := f.place(t, "s1", deliveryRequest())
	f.clock.Advance(30 * time.Second)
	fresh := f.place(t, "s1", deliveryRequest())
	dine := f.place(t, "s1", dineInRequest("T1"))

	h, err := f.orders.History(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 3, h.Total)
	assert.Equal(t, 1, h.Delivered)
	assert.Equal(t, 2, h.Pending)

	statuses := map[string]string{}
	for _, o := range h.Orders {
		statuses[o.ID] = o.Status
	}
	assert.Equal(t, models.StatusDelivered, statuses[old.ID])
	assert.Equal(t, models.StatusOrderPlaced, statuses[fresh.ID])
	assert.Equal(t, models.StatusOrderPlaced, statuses[dine.ID])
}

func TestMonitorTickAdvancesActiveDeliveries(t *testing.T) {
	f := newFixture(t)
	a := f.place(t, "s1", deliveryRequest())
	b := f.place(t, "s2", deliveryRequest())

	monitor := NewOrderMonitor(f.orders, time.Second)
	assert.Equal(t, 0, monitor.Tick())

	f.clock.Advance(f.orders.Timeline.StageDuration())
	assert.Equal(t, 2, monitor.Tick())
	assert.Equal(t, 0, monitor.Tick(), "no change without time passing")

	f.clock.Advance(time.Minute)
	assert.Equal(t, 2, monitor.Tick())

	for _, id := range []string{a.ID, b.ID} {
		var o models.Order
		require.NoError(t, f.db.First(&o, "id = ?", id).Error)
		assert.Equal(t, models.StatusDelivered, o.Status)
	}
}

func TestMonitorStartStop(t *testing.T) {
	f := newFixture(t)
	monitor := NewOrderMonitor(f.orders, 10*time.Millisecond)
	monitor.Start()
	time.Sleep(30 * time.Millisecond)
	monitor.Stop()
	monitor.Stop()

	idle := NewOrderMonitor(f.orders, 0)
	assert.Equal(t, time.Second, idle.Interval)
	idle.Stop()
}
