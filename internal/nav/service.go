package nav

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Service resolves path requests asynchronously. Issuing a request returns a
// pending handle immediately; a bounded pool of workers runs the searches so
// pathfinding, the only component allowed to span ticks, never stalls the
// frame. Cancellation is advisory: a search that finishes after its handle
// was cancelled has its result dropped, never applied.
type Service struct {
	grid   *Grid
	sem    *semaphore.Weighted
	useJPS bool

	pending atomic.Int64
}

// NewService creates a path service over the grid with the given worker
// bound. useJPS selects jump point search; both produce equal-cost paths.
func NewService(grid *Grid, workers int64, useJPS bool) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		grid:   grid,
		sem:    semaphore.NewWeighted(workers),
		useJPS: useJPS,
	}
}

// Pending returns the number of requests not yet resolved.
func (s *Service) Pending() int { return int(s.pending.Load()) }

// Request queues a path search and returns its handle. The handle starts
// Pending and resolves to Found or NotFound; it is bound to the grid
// generation current at request time.
func (s *Service) Request(ctx context.Context, mobID uint32, start, goal Cell) *Handle {
	reqCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		mobID:      mobID,
		start:      start,
		goal:       goal,
		grid:       s.grid,
		generation: s.grid.Generation(),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	h.status.Store(int32(StatusPending))

	s.pending.Add(1)
	go s.resolve(reqCtx, h)
	return h
}

func (s *Service) resolve(ctx context.Context, h *Handle) {
	defer s.pending.Add(-1)
	defer close(h.done)
	defer h.cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		h.status.Store(int32(StatusNotFound))
		return
	}
	defer s.sem.Release(1)

	var p Path
	if s.useJPS {
		p = s.grid.FindPathJPS(h.start, h.goal)
	} else {
		p = s.grid.FindPath(h.start, h.goal)
	}

	// Smooth before publishing: waypoints kept after smoothing see each
	// other, so followers walk straight segments instead of cell steps.
	// Cost stays the search cost.
	if p.Status == StatusFound {
		p.Waypoints = s.grid.SmoothPath(p.Waypoints)
	}

	// Drop late results: the requester cancelled while we were searching.
	if ctx.Err() != nil {
		h.status.Store(int32(StatusNotFound))
		return
	}

	h.path.Store(&p)
	h.status.Store(int32(p.Status))

	if p.Status == StatusNotFound {
		slog.Debug("path not found",
			"mob", h.mobID,
			"start", h.start,
			"goal", h.goal)
	}
}

// Handle is the pending/resolved state of one path request.
type Handle struct {
	mobID       uint32
	start, goal Cell
	grid        *Grid
	generation  uint64

	status atomic.Int32
	path   atomic.Pointer[Path]
	cancel context.CancelFunc
	done   chan struct{}
}

// Poll returns the current status without blocking. A cancelled request
// reads as NotFound; callers fall back the same way for both.
func (h *Handle) Poll() Status {
	return Status(h.status.Load())
}

// Path returns the resolved path. ok is false while Pending, after
// cancellation, and when no path exists.
func (h *Handle) Path() (Path, bool) {
	p := h.path.Load()
	if p == nil || p.Status != StatusFound {
		return Path{}, false
	}
	return *p, true
}

// Goal returns the requested destination cell.
func (h *Handle) Goal() Cell { return h.goal }

// Cancel abandons the request. The background search may still finish, but
// its result is discarded.
func (h *Handle) Cancel() {
	h.cancel()
}

// Stale reports whether the terrain changed since the request was issued.
// A stale handle's path must be discarded and re-requested.
func (h *Handle) Stale() bool {
	return h.grid.Generation() != h.generation
}

// Wait blocks until the request resolves or the context ends. Test helper;
// production callers poll from the behavior tree instead.
func (h *Handle) Wait(ctx context.Context) Status {
	select {
	case <-h.done:
	case <-ctx.Done():
	}
	return h.Poll()
}
