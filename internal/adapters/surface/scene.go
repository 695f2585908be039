// Package surface implements the render surface as an observable scene:
// every map command mutates an in-memory model and is published as an event
// to subscribers such as websocket clients.
package surface

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/ports"
	"sync"
)

type EventType string

const (
	EventSnapshot        EventType = "snapshot"
	EventReset           EventType = "reset"
	EventMarkerAdded     EventType = "marker_added"
	EventMarkerMoved     EventType = "marker_moved"
	EventIconSet         EventType = "icon_set"
	EventMarkerRemoved   EventType = "marker_removed"
	EventPolylineAdded   EventType = "polyline_added"
	EventPopupOpened     EventType = "popup_opened"
	EventPopupClosed     EventType = "popup_closed"
	EventFlyTo           EventType = "fly_to"
	EventSizeInvalidated EventType = "size_invalidated"
)

// Event is one surface command as seen by observers.
type Event struct {
	Seq      uint64          `json:"seq"`
	Type     EventType       `json:"type"`
	ID       string          `json:"id,omitempty"`
	Marker   *ports.Marker   `json:"marker,omitempty"`
	Polyline *ports.Polyline `json:"polyline,omitempty"`
	Position *domain.LatLng  `json:"position,omitempty"`
	Icon     string          `json:"icon,omitempty"`
	HTML     string          `json:"html,omitempty"`
	Zoom     int             `json:"zoom,omitempty"`
	Viewport *ports.Viewport `json:"viewport,omitempty"`
	Snapshot *Snapshot       `json:"snapshot,omitempty"`
}

// Camera is where the map currently looks.
type Camera struct {
	Center domain.LatLng `json:"center"`
	Zoom   int           `json:"zoom"`
}

// Snapshot is the full scene state at Seq.
type Snapshot struct {
	Seq       uint64            `json:"seq"`
	Viewport  ports.Viewport    `json:"viewport"`
	Camera    Camera            `json:"camera"`
	Markers   []ports.Marker    `json:"markers"`
	Polylines []ports.Polyline  `json:"polylines"`
	Popups    map[string]string `json:"popups"`
	SizeEpoch int               `json:"size_epoch"`
}

type subscriber struct {
	ch chan Event
}

// Scene implements ports.MapSurface. Commands addressed to unknown markers
// are ignored, matching a map whose layer was already torn down.
type Scene struct {
	mu        sync.RWMutex
	seq       uint64
	viewport  ports.Viewport
	camera    Camera
	order     []string
	markers   map[string]ports.Marker
	polylines []ports.Polyline
	popups    map[string]string
	sizeEpoch int
	subs      map[*subscriber]struct{}
	closed    bool
}

func NewScene() *Scene {
	return &Scene{
		markers: make(map[string]ports.Marker),
		popups:  make(map[string]string),
		subs:    make(map[*subscriber]struct{}),
	}
}

// publish stamps ev and fans it out. Caller holds s.mu.
// Subscribers that cannot keep up are dropped and their channel closed.
func (s *Scene) publish(ev Event) {
	s.seq++
	ev.Seq = s.seq
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
			delete(s.subs, sub)
			close(sub.ch)
		}
	}
}

func (s *Scene) Reset(vp ports.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = vp
	s.camera = Camera{Center: vp.Center, Zoom: vp.Zoom}
	s.order = nil
	s.markers = make(map[string]ports.Marker)
	s.polylines = nil
	s.popups = make(map[string]string)
	s.publish(Event{Type: EventReset, Viewport: &vp})
}

func (s *Scene) AddMarker(m ports.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.markers[m.ID] = m
	s.publish(Event{Type: EventMarkerAdded, ID: m.ID, Marker: &m})
}

func (s *Scene) MoveMarker(id string, pos domain.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return
	}
	m.Position = pos
	s.markers[id] = m
	s.publish(Event{Type: EventMarkerMoved, ID: id, Position: &pos})
}

func (s *Scene) SetIcon(id string, icon string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return
	}
	m.Icon = icon
	s.markers[id] = m
	s.publish(Event{Type: EventIconSet, ID: id, Icon: icon})
}

func (s *Scene) RemoveMarker(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[id]; !ok {
		return
	}
	delete(s.markers, id)
	delete(s.popups, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.publish(Event{Type: EventMarkerRemoved, ID: id})
}

func (s *Scene) MarkerPosition(id string) (domain.LatLng, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	return m.Position, ok
}

func (s *Scene) AddPolyline(p ports.Polyline) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Points = append([]domain.LatLng(nil), p.Points...)
	s.polylines = append(s.polylines, p)
	s.publish(Event{Type: EventPolylineAdded, ID: p.ID, Polyline: &p})
}

func (s *Scene) OpenPopup(id string, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[id]; !ok {
		return
	}
	s.popups[id] = html
	s.publish(Event{Type: EventPopupOpened, ID: id, HTML: html})
}

func (s *Scene) ClosePopup(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.popups[id]; !ok {
		return
	}
	delete(s.popups, id)
	s.publish(Event{Type: EventPopupClosed, ID: id})
}

func (s *Scene) FlyTo(pos domain.LatLng, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.camera = Camera{Center: pos, Zoom: zoom}
	s.publish(Event{Type: EventFlyTo, Position: &pos, Zoom: zoom})
}

func (s *Scene) InvalidateSize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sizeEpoch++
	s.publish(Event{Type: EventSizeInvalidated})
}

// Snapshot returns a deep copy of the current scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Scene) snapshotLocked() Snapshot {
	snap := Snapshot{
		Seq:       s.seq,
		Viewport:  s.viewport,
		Camera:    s.camera,
		Markers:   make([]ports.Marker, 0, len(s.order)),
		Polylines: make([]ports.Polyline, 0, len(s.polylines)),
		Popups:    make(map[string]string, len(s.popups)),
		SizeEpoch: s.sizeEpoch,
	}
	for _, id := range s.order {
		snap.Markers = append(snap.Markers, s.markers[id])
	}
	for _, p := range s.polylines {
		p.Points = append([]domain.LatLng(nil), p.Points...)
		snap.Polylines = append(snap.Polylines, p)
	}
	for k, v := range s.popups {
		snap.Popups[k] = v
	}
	return snap
}

// Subscribe registers an observer and returns its current snapshot together
// with a channel of every later event. The channel is closed when the
// observer falls more than buf events behind, on cancel, or on Close.
func (s *Scene) Subscribe(buf int) (Snapshot, <-chan Event, func()) {
	if buf <= 0 {
		buf = 64
	}
	sub := &subscriber{ch: make(chan Event, buf)}

	s.mu.Lock()
	snap := s.snapshotLocked()
	if s.closed {
		close(sub.ch)
	} else {
		s.subs[sub] = struct{}{}
	}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[sub]; ok {
			delete(s.subs, sub)
			close(sub.ch)
		}
	}
	return snap, sub.ch, cancel
}

// Subscribers reports the number of live observers.
func (s *Scene) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Close disconnects every observer. Later subscriptions receive a closed channel.
func (s *Scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for sub := range s.subs {
		delete(s.subs, sub)
		close(sub.ch)
	}
}

var _ ports.MapSurface = (*Scene)(nil)
