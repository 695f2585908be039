package services

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"aed-dispatch-service/internal/ports"
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DispatchPolicy decides what happens when an alert that already has a drone
// in flight is dispatched again.
type DispatchPolicy int

const (
	// OnePerAlert rejects the second dispatch with domain.ErrAlertInFlight.
	OnePerAlert DispatchPolicy = iota
	// AllowStacking starts an independent animation per dispatch.
	AllowStacking
)

const (
	IconDrone    = "drone"
	IconDroneAED = "drone-aed"

	pickupLegColor  = "#3b82f6"
	deliverLegColor = "#10b981"

	pickupPopup    = "<b>AED acquired</b><br>Flying to the incident..."
	deliveredPopup = "<b>Rescue complete</b><br>AED delivered to the incident"
)

type AnimatorConfig struct {
	// Progress added per frame, in (0, 1).
	Increment      float64
	FrameInterval  time.Duration
	BaseETAMinutes float64
	// Probability that a frame refreshes the task ETA.
	ETAUpdateChance float64
	PopupDuration   time.Duration
	Policy          DispatchPolicy
}

func DefaultAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		Increment:       0.015,
		FrameInterval:   16 * time.Millisecond,
		BaseETAMinutes:  8,
		ETAUpdateChance: 0.1,
		PopupDuration:   2 * time.Second,
		Policy:          OnePerAlert,
	}
}

type animationRun struct {
	taskID  string
	alertID int
	cancel  context.CancelFunc
	done    chan struct{}
}

// DispatchAnimator flies a drone marker from a depot via an AED pickup point
// to an incident, keeping the dispatcher task board in sync.
// Each dispatch owns its own cursor, marker and goroutine.
type DispatchAnimator struct {
	cfg     AnimatorConfig
	routes  ports.RouteProvider
	tasks   ports.TaskRepository
	surface ports.MapSurface
	clock   ports.Clock
	rng     ports.Random
	metrics *obs.Metrics

	mu       sync.Mutex
	inFlight map[int]int
	runs     map[string]*animationRun
	wg       sync.WaitGroup
}

func NewDispatchAnimator(
	cfg AnimatorConfig,
	routes ports.RouteProvider,
	tasks ports.TaskRepository,
	surface ports.MapSurface,
	clock ports.Clock,
	rng ports.Random,
	metrics *obs.Metrics,
) *DispatchAnimator {
	def := DefaultAnimatorConfig()
	if !(cfg.Increment > 0 && cfg.Increment < 1) {
		cfg.Increment = def.Increment
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = def.FrameInterval
	}
	if cfg.PopupDuration <= 0 {
		cfg.PopupDuration = def.PopupDuration
	}

	return &DispatchAnimator{
		cfg:      cfg,
		routes:   routes,
		tasks:    tasks,
		surface:  surface,
		clock:    clock,
		rng:      rng,
		metrics:  metrics,
		inFlight: make(map[int]int),
		runs:     make(map[string]*animationRun),
	}
}

// Dispatch plans both legs, records a task and starts the animation.
// Routing failures never surface: a leg without a routed path flies straight.
// The animation outlives ctx; it ends on completion or StopAll.
func (a *DispatchAnimator) Dispatch(
	ctx context.Context,
	alert domain.Alert,
	depot domain.LatLng,
	pickup domain.LatLng,
) (_ domain.DispatchTask, err error) {
	defer obs.Time(ctx, "dispatch.Dispatch")(&err)

	if err := a.reserve(alert.ID); err != nil {
		return domain.DispatchTask{}, err
	}
	started := false
	defer func() {
		if !started {
			a.release(alert.ID)
		}
	}()

	pickupLeg, deliverLeg := a.acquireLegs(ctx, depot, pickup, alert.Location)
	if err := ctx.Err(); err != nil {
		return domain.DispatchTask{}, fmt.Errorf("dispatch alert %d: %w", alert.ID, err)
	}

	anim, err := NewAnimation(domain.BuildSegments(pickupLeg, deliverLeg), a.cfg.Increment)
	if err != nil {
		return domain.DispatchTask{}, fmt.Errorf("dispatch alert %d: %w", alert.ID, err)
	}

	task := domain.DispatchTask{
		ID:         uuid.NewString(),
		AlertID:    alert.ID,
		DroneLabel: fmt.Sprintf("DR-%d", a.rng.Intn(90)+10),
		Status:     domain.TaskEnRouteToPickup,
		ETAMinutes: a.cfg.BaseETAMinutes,
		DistanceKm: round1(domain.PathLengthKm(pickupLeg) + domain.PathLengthKm(deliverLeg)),
		CreatedAt:  a.clock.Now(),
	}
	if err := a.tasks.Add(ctx, task); err != nil {
		return domain.DispatchTask{}, fmt.Errorf("dispatch alert %d: %w", alert.ID, err)
	}

	markerID := DroneMarkerID(task.ID)
	a.surface.AddPolyline(ports.Polyline{ID: "route-" + task.ID + "-pickup", Points: pickupLeg, Color: pickupLegColor, Dashed: true})
	a.surface.AddPolyline(ports.Polyline{ID: "route-" + task.ID + "-deliver", Points: deliverLeg, Color: deliverLegColor, Dashed: true})
	a.surface.AddMarker(ports.Marker{ID: markerID, Kind: ports.MarkerDrone, Position: pickupLeg[0], Icon: IconDrone})

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &animationRun{taskID: task.ID, alertID: alert.ID, cancel: cancel, done: make(chan struct{})}
	ticker := a.clock.NewTicker(a.cfg.FrameInterval)

	a.mu.Lock()
	a.runs[task.ID] = run
	a.wg.Add(1)
	a.mu.Unlock()

	a.metrics.DispatchStarted()
	started = true
	go a.animate(runCtx, run, anim, ticker)

	log.Printf("req_id=%s op=dispatch.Started alert=%d task=%s drone=%s segments=%d distance_km=%.1f",
		obs.RequestID(ctx), alert.ID, task.ID, task.DroneLabel, anim.Segments(), task.DistanceKm)
	return task, nil
}

// DroneMarkerID is the surface marker of a dispatch task.
func DroneMarkerID(taskID string) string { return "drone-" + taskID }

func (a *DispatchAnimator) reserve(alertID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.Policy == OnePerAlert && a.inFlight[alertID] > 0 {
		return fmt.Errorf("dispatch alert %d: %w", alertID, domain.ErrAlertInFlight)
	}
	a.inFlight[alertID]++
	return nil
}

func (a *DispatchAnimator) release(alertID int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inFlight[alertID] <= 1 {
		delete(a.inFlight, alertID)
		return
	}
	a.inFlight[alertID]--
}

// acquireLegs fetches depot->pickup and pickup->incident concurrently.
func (a *DispatchAnimator) acquireLegs(ctx context.Context, depot, pickup, incident domain.LatLng) ([]domain.LatLng, []domain.LatLng) {
	var pickupLeg, deliverLeg []domain.LatLng

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pickupLeg = a.acquireLeg(gctx, depot, pickup)
		return nil
	})
	g.Go(func() error {
		deliverLeg = a.acquireLeg(gctx, pickup, incident)
		return nil
	})
	_ = g.Wait()

	return pickupLeg, deliverLeg
}

// acquireLeg returns the routed path, or the straight line when routing fails
// or yields fewer than two points.
func (a *DispatchAnimator) acquireLeg(ctx context.Context, from, to domain.LatLng) []domain.LatLng {
	if a.routes == nil {
		return domain.StraightLine(from, to)
	}

	path, err := a.routes.Route(ctx, from, to)
	if err != nil || len(path) < 2 {
		log.Printf("req_id=%s op=dispatch.route fallback=straight_line from=%v to=%v points=%d err=%v",
			obs.RequestID(ctx), from, to, len(path), err)
		a.metrics.RouteOutcome(obs.RouteFallback)
		return domain.StraightLine(from, to)
	}

	a.metrics.RouteOutcome(obs.RouteRouted)
	return path
}

func (a *DispatchAnimator) animate(ctx context.Context, run *animationRun, anim *Animation, ticker ports.Ticker) {
	completed := false
	defer func() {
		ticker.Stop()
		a.finish(run, completed)
	}()

	markerID := DroneMarkerID(run.taskID)
	chance := a.cfg.ETAUpdateChance

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}
		if ctx.Err() != nil {
			return
		}

		f := anim.Step()
		a.surface.MoveMarker(markerID, f.Position)

		switch {
		case f.Done:
			a.updateTask(ctx, run.taskID, func(t *domain.DispatchTask) {
				t.Status = domain.TaskDelivered
				t.ETAMinutes = 0
			})
			a.surface.OpenPopup(markerID, deliveredPopup)
			completed = true
			log.Printf("op=dispatch.Delivered task=%s alert=%d", run.taskID, run.alertID)
			return

		case f.EnteredDeliver:
			a.updateTask(ctx, run.taskID, func(t *domain.DispatchTask) {
				t.Status = domain.TaskEnRouteToIncident
			})
			a.surface.SetIcon(markerID, IconDroneAED)
			a.surface.OpenPopup(markerID, pickupPopup)
			a.clock.AfterFunc(a.cfg.PopupDuration, func() { a.surface.ClosePopup(markerID) })

		default:
			if chance > 0 && a.rng.Float64() > 1-chance {
				eta := math.Max(0, round1(a.cfg.BaseETAMinutes*anim.Remaining()))
				a.updateTask(ctx, run.taskID, func(t *domain.DispatchTask) {
					t.ETAMinutes = eta
				})
			}
		}
	}
}

func (a *DispatchAnimator) updateTask(ctx context.Context, id string, fn func(*domain.DispatchTask)) {
	if err := a.tasks.Update(ctx, id, fn); err != nil {
		log.Printf("op=dispatch.updateTask task=%s err=%v", id, err)
	}
}

func (a *DispatchAnimator) finish(run *animationRun, completed bool) {
	a.mu.Lock()
	delete(a.runs, run.taskID)
	a.mu.Unlock()
	a.release(run.alertID)

	run.cancel()
	a.metrics.DispatchEnded(completed)
	close(run.done)
	a.wg.Done()
}

// StopAll cancels every running animation and waits for them to exit.
func (a *DispatchAnimator) StopAll() {
	a.mu.Lock()
	runs := make([]*animationRun, 0, len(a.runs))
	for _, r := range a.runs {
		runs = append(runs, r)
	}
	a.mu.Unlock()

	for _, r := range runs {
		r.cancel()
	}
	for _, r := range runs {
		<-r.done
	}
}

// Wait blocks until every animation has ended.
func (a *DispatchAnimator) Wait() { a.wg.Wait() }

// Active reports the number of running animations.
func (a *DispatchAnimator) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.runs)
}

// InFlight reports whether alertID has a running animation.
func (a *DispatchAnimator) InFlight(alertID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[alertID] > 0
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
