package services

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"aed-dispatch-service/internal/ports"
	"context"
	"fmt"
	"html"
	"log"
	"math"
	"strconv"
	"sync"
	"time"
)

// DepotSelection decides where a dispatched drone starts and which AED it collects.
type DepotSelection int

const (
	// SelectFixed always uses the configured depot and pickup point.
	SelectFixed DepotSelection = iota
	// SelectNearest uses the station nearest to the incident and the AED nearest to that station.
	SelectNearest
)

const (
	UserMarkerID      = "user"
	UserDroneMarkerID = "drone"

	TilesLight = "light"
	TilesDark  = "dark"
)

type ConsoleConfig struct {
	Selection   DepotSelection
	FixedDepot  domain.LatLng
	FixedPickup domain.LatLng

	UserLocation   domain.LatLng
	NearbyStation  domain.LatLng
	UserInitialETA int
	TickPeriod     time.Duration
	UserZoom       int

	CityCenter domain.LatLng
	AdminZoom  int
	FocusZoom  int

	// Share of AEDs reported as available once the directory loads.
	AEDAvailableRatio float64
	// Delay before the freshly created map is asked to re-measure itself.
	SettleDelay time.Duration
}

func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Selection:         SelectFixed,
		UserInitialETA:    12,
		TickPeriod:        time.Second,
		UserZoom:          14,
		AdminZoom:         11,
		FocusZoom:         16,
		AEDAvailableRatio: 0.95,
		SettleDelay:       400 * time.Millisecond,
	}
}

// Console is the view controller: it owns the active view, tears the surface
// down on every switch and wires the simulator and animator to it.
type Console struct {
	cfg       ConsoleConfig
	base      context.Context
	surface   ports.MapSurface
	aeds      ports.AEDDirectory
	tasks     ports.TaskRepository
	clock     ports.Clock
	rng       ports.Random
	simulator *DeliverySimulator
	animator  *DispatchAnimator

	// viewMu serializes view switches against dispatches.
	viewMu sync.RWMutex

	mu       sync.Mutex
	view     domain.View
	gen      uint64
	alerts   []domain.Alert
	stations []domain.Station
	stats    domain.Stats
	aedSites []domain.AEDSite
	loads    sync.WaitGroup

	// viewCtx is cancelled as soon as a switch begins, so in-flight
	// dispatches stop waiting on routing before the teardown.
	viewCtx    context.Context
	viewCancel context.CancelFunc
}

type ConsoleDeps struct {
	Surface   ports.MapSurface
	AEDs      ports.AEDDirectory
	Tasks     ports.TaskRepository
	Clock     ports.Clock
	Random    ports.Random
	Simulator *DeliverySimulator
	Animator  *DispatchAnimator
}

// NewConsole builds a console with no active view. base bounds the lifetime of
// every simulation it starts.
func NewConsole(
	base context.Context,
	cfg ConsoleConfig,
	deps ConsoleDeps,
	alerts []domain.Alert,
	stations []domain.Station,
	stats domain.Stats,
) *Console {
	viewCtx, viewCancel := context.WithCancel(base)
	return &Console{
		cfg:       cfg,
		base:      base,
		surface:   deps.Surface,
		aeds:      deps.AEDs,
		tasks:     deps.Tasks,
		clock:     deps.Clock,
		rng:       deps.Random,
		simulator: deps.Simulator,
		animator:  deps.Animator,
		alerts:    append([]domain.Alert(nil), alerts...),
		stations:  append([]domain.Station(nil), stations...),
		stats:     stats,

		viewCtx:    viewCtx,
		viewCancel: viewCancel,
	}
}

// SwitchView tears down the current view and initialises v. AED markers load
// in the background and are dropped if another switch happens first.
func (c *Console) SwitchView(ctx context.Context, v domain.View) (err error) {
	defer obs.Time(ctx, "console.SwitchView")(&err)

	if v != domain.ViewUser && v != domain.ViewAdmin {
		return fmt.Errorf("switch view %q: %w", v, domain.ErrUnknownView)
	}

	c.cancelView()
	c.viewMu.Lock()
	defer c.viewMu.Unlock()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.view = v
	c.viewCtx, c.viewCancel = context.WithCancel(c.base)
	c.mu.Unlock()

	c.animator.StopAll()

	switch v {
	case domain.ViewUser:
		c.surface.Reset(ports.Viewport{Center: c.cfg.UserLocation, Zoom: c.cfg.UserZoom, Tiles: TilesLight})
		c.drawUserView()
		if err := c.simulator.Start(c.base, c.cfg.UserInitialETA, c.cfg.TickPeriod); err != nil {
			return fmt.Errorf("switch view %q: %w", v, err)
		}
	case domain.ViewAdmin:
		c.simulator.Reset()
		c.surface.Reset(ports.Viewport{Center: c.cfg.CityCenter, Zoom: c.cfg.AdminZoom, Tiles: TilesDark})
		c.drawAdminView()
	}

	c.clock.AfterFunc(c.cfg.SettleDelay, func() {
		if c.currentGen() == gen {
			c.surface.InvalidateSize()
		}
	})

	c.loads.Add(1)
	go c.loadAEDs(context.WithoutCancel(ctx), gen, v)

	return nil
}

func (c *Console) drawUserView() {
	c.surface.AddMarker(ports.Marker{ID: UserMarkerID, Kind: ports.MarkerUser, Position: c.cfg.UserLocation, Icon: "user"})
	c.surface.OpenPopup(UserMarkerID, "Your location")
	c.surface.AddMarker(ports.Marker{ID: UserDroneMarkerID, Kind: ports.MarkerDrone, Position: c.cfg.NearbyStation, Icon: IconDrone})
	c.surface.AddPolyline(ports.Polyline{
		ID:     "user-route",
		Points: domain.StraightLine(c.cfg.NearbyStation, c.cfg.UserLocation),
		Color:  pickupLegColor,
		Dashed: true,
	})
}

func (c *Console) drawAdminView() {
	c.mu.Lock()
	for i := range c.stations {
		c.stations[i].DroneCount = c.rng.Intn(11)
	}
	stations := append([]domain.Station(nil), c.stations...)
	alerts := append([]domain.Alert(nil), c.alerts...)
	c.mu.Unlock()

	for i, s := range stations {
		c.surface.AddMarker(ports.Marker{
			ID:       "station-" + strconv.Itoa(i),
			Kind:     ports.MarkerStation,
			Position: s.Location,
			Icon:     "station",
			Popup:    fmt.Sprintf("<b>%s</b><br>Drones: %d", html.EscapeString(s.Name), s.DroneCount),
		})
	}
	for _, a := range alerts {
		c.surface.AddMarker(ports.Marker{
			ID:       AlertMarkerID(a.ID),
			Kind:     ports.MarkerAlert,
			Position: a.Location,
			Icon:     "alert",
			Popup:    fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(a.Label), html.EscapeString(a.Description)),
		})
	}
}

func AlertMarkerID(id int) string { return "alert-" + strconv.Itoa(id) }

func (c *Console) loadAEDs(ctx context.Context, gen uint64, v domain.View) {
	defer c.loads.Done()

	sites, err := c.aeds.ListAEDs(ctx)
	if err != nil {
		log.Printf("req_id=%s op=console.loadAEDs view=%s err=%v", obs.RequestID(ctx), v, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Drawing under c.mu keeps a concurrent switch from interleaving with it.
	if gen != c.gen {
		log.Printf("op=console.loadAEDs view=%s dropped=stale_view", v)
		return
	}

	c.aedSites = sites
	if v == domain.ViewAdmin {
		c.stats.AEDsTotal = len(sites)
		c.stats.AEDsAvailable = int(math.Floor(float64(len(sites)) * c.cfg.AEDAvailableRatio))
	}

	for i, s := range sites {
		addr := s.Address
		if addr == "" {
			addr = "No address"
		}
		c.surface.AddMarker(ports.Marker{
			ID:       "aed-" + strconv.Itoa(i),
			Kind:     ports.MarkerAED,
			Position: s.Location,
			Icon:     "aed",
			Popup:    fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(s.Name), html.EscapeString(addr)),
		})
	}
}

// cancelView aborts work scoped to the current view.
func (c *Console) cancelView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewCancel()
}

func (c *Console) currentGen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Console) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Console) alert(id int) (domain.Alert, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != domain.ViewAdmin {
		return domain.Alert{}, fmt.Errorf("alert %d: %w", id, domain.ErrViewInactive)
	}
	for _, a := range c.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Alert{}, fmt.Errorf("alert %d: %w", id, domain.ErrAlertNotFound)
}

// FocusAlert flies the admin map to an alert.
func (c *Console) FocusAlert(ctx context.Context, id int) error {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()

	a, err := c.alert(id)
	if err != nil {
		return fmt.Errorf("focus alert: %w", err)
	}
	c.surface.FlyTo(a.Location, c.cfg.FocusZoom)
	c.surface.OpenPopup(AlertMarkerID(a.ID), fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(a.Label), html.EscapeString(a.Description)))
	return nil
}

// DispatchAlert sends a drone to an alert on the admin view.
func (c *Console) DispatchAlert(ctx context.Context, id int) (domain.DispatchTask, error) {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()

	a, err := c.alert(id)
	if err != nil {
		return domain.DispatchTask{}, fmt.Errorf("dispatch alert: %w", err)
	}

	c.mu.Lock()
	viewCtx := c.viewCtx
	c.mu.Unlock()

	dctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(viewCtx, cancel)
	defer stop()

	depot, pickup := c.endpoints(dctx, a)
	task, err := c.animator.Dispatch(dctx, a, depot, pickup)
	if err != nil {
		if viewCtx.Err() != nil {
			return domain.DispatchTask{}, fmt.Errorf("dispatch alert %d: view switched: %w", id, domain.ErrViewInactive)
		}
		return domain.DispatchTask{}, fmt.Errorf("dispatch alert: %w", err)
	}
	return task, nil
}

// endpoints resolves the depot and pickup for a. Nearest selection falls
// back to the fixed points when stations or AEDs are unavailable.
func (c *Console) endpoints(ctx context.Context, a domain.Alert) (domain.LatLng, domain.LatLng) {
	if c.cfg.Selection != SelectNearest {
		return c.cfg.FixedDepot, c.cfg.FixedPickup
	}

	depot, pickup := c.cfg.FixedDepot, c.cfg.FixedPickup

	c.mu.Lock()
	stations := append([]domain.Station(nil), c.stations...)
	sites := append([]domain.AEDSite(nil), c.aedSites...)
	c.mu.Unlock()

	if s, err := NearestStation(a.Location, stations); err == nil {
		depot = s.Location
	}

	if len(sites) == 0 {
		loaded, err := c.aeds.ListAEDs(ctx)
		if err != nil {
			log.Printf("req_id=%s op=console.endpoints err=%v", obs.RequestID(ctx), err)
		}
		sites = loaded
	}
	if aed, err := NearestAED(depot, sites); err == nil {
		pickup = aed.Location
	}

	return depot, pickup
}

// Resize asks the surface to re-measure its container.
func (c *Console) Resize() { c.surface.InvalidateSize() }

func (c *Console) DeliveryState() domain.DeliveryState { return c.simulator.State() }

func (c *Console) ProgressPercent() float64 { return c.simulator.ProgressPercent() }

func (c *Console) StatusText() string { return c.simulator.StatusText() }

// Recycle forwards a user confirmation to the simulator; it only applies on the user view.
func (c *Console) Recycle(ctx context.Context, confirmed bool) bool {
	if c.View() != domain.ViewUser {
		return false
	}
	return c.simulator.Recycle(ctx, confirmed)
}

func (c *Console) Tasks(ctx context.Context) ([]domain.DispatchTask, error) {
	return c.tasks.ListTasks(ctx)
}

func (c *Console) Alerts() []domain.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Alert(nil), c.alerts...)
}

func (c *Console) Stations() []domain.Station {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Station(nil), c.stations...)
}

func (c *Console) Stats() domain.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// AEDs returns the directory as last loaded by a view.
func (c *Console) AEDs(ctx context.Context) ([]domain.AEDSite, error) {
	c.mu.Lock()
	sites := append([]domain.AEDSite(nil), c.aedSites...)
	c.mu.Unlock()

	if len(sites) > 0 {
		return sites, nil
	}
	return c.aeds.ListAEDs(ctx)
}

// WaitLoaded blocks until background AED loads have finished.
func (c *Console) WaitLoaded() { c.loads.Wait() }

// Shutdown stops every loop the console started.
func (c *Console) Shutdown() {
	c.cancelView()
	c.viewMu.Lock()
	defer c.viewMu.Unlock()

	c.mu.Lock()
	c.gen++
	c.mu.Unlock()

	c.simulator.Stop()
	c.animator.StopAll()
	c.loads.Wait()
}
