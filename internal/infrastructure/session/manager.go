// Package session keeps one price table workspace per browser session.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/lookup"
	"pricetable/internal/domain/pricetable"
	"pricetable/internal/domain/product"
	"pricetable/pkg/logger"
)

// ManagerConfig configures Manager behavior.
type ManagerConfig struct {
	MaxSessions   int           // Max simultaneous sessions (0 = unlimited)
	IdleTimeout   time.Duration // Drop session after inactivity (0 = never)
	FailurePolicy pricetable.FailurePolicy
}

// DefaultManagerConfig returns production-safe defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxSessions:   1000,
		IdleTimeout:   30 * time.Minute,
		FailurePolicy: pricetable.ClearLoadingOnFailure,
	}
}

// Manager owns the workspaces of all live sessions.
// Thread-safe for concurrent access.
type Manager struct {
	config  ManagerConfig
	gateway product.Gateway

	sessions sync.Map // map[sessionID]*Workspace
	count    atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logger.Logger
}

// NewManager creates a session manager and starts idle eviction.
func NewManager(cfg ManagerConfig, gateway product.Gateway, log *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		config:  cfg,
		gateway: gateway,
		ctx:     ctx,
		cancel:  cancel,
		log:     log.WithComponent("session-manager"),
	}

	if cfg.IdleTimeout > 0 {
		m.wg.Add(1)
		go m.evictionLoop()
	}

	m.log.Infow("session manager started",
		"max_sessions", cfg.MaxSessions,
		"idle_timeout", cfg.IdleTimeout,
	)

	return m
}

// Create opens a new session and mounts its table, which issues the
// initial fetch.
func (m *Manager) Create(ctx context.Context) (*Workspace, error) {
	if m.config.MaxSessions > 0 && int(m.count.Load()) >= m.config.MaxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrSessionLimit, m.config.MaxSessions)
	}

	id := uuid.New().String()
	log := m.log.With("session_id", id)

	table := pricetable.NewStore(m.gateway,
		pricetable.WithFailurePolicy(m.config.FailurePolicy),
		pricetable.WithLogger(log),
	)
	fields := &FieldErrors{}
	w := &Workspace{
		ID:        id,
		CreatedAt: time.Now(),
		Table:     table,
		Filters:   filter.NewCoordinator(table),
		Lookup: lookup.NewFlow(m.gateway, fields,
			lookup.WithFailurePolicy(m.config.FailurePolicy),
			lookup.WithLogger(log),
		),
		Fields: fields,
	}
	w.Touch()

	m.sessions.Store(id, w)
	m.count.Add(1)

	if err := table.Mount(ctx); err != nil {
		m.remove(id, w, "mount failed")
		return nil, fmt.Errorf("mount table: %w", err)
	}

	m.log.Infow("session created", "session_id", id, "total_sessions", m.count.Load())
	return w, nil
}

// Get returns the workspace of a live session.
func (m *Manager) Get(id string) (*Workspace, error) {
	val, ok := m.sessions.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	w := val.(*Workspace)
	w.Touch()
	return w, nil
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	val, ok := m.sessions.Load(id)
	if !ok {
		return ErrSessionNotFound
	}
	m.remove(id, val.(*Workspace), "closed by client")
	return nil
}

// evictionLoop drops idle sessions periodically.
func (m *Manager) evictionLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle(time.Now())
		}
	}
}

// evictIdle drops sessions not used since now minus IdleTimeout.
func (m *Manager) evictIdle(now time.Time) int {
	threshold := now.Add(-m.config.IdleTimeout).Unix()
	evicted := 0

	m.sessions.Range(func(key, value any) bool {
		w := value.(*Workspace)

		// Don't evict if actively in use
		if w.refCount.Load() > 0 {
			return true
		}
		if w.lastUsed.Load() < threshold {
			m.remove(key.(string), w, "idle timeout")
			evicted++
		}
		return true
	})
	return evicted
}

func (m *Manager) remove(id string, w *Workspace, reason string) {
	if _, loaded := m.sessions.LoadAndDelete(id); !loaded {
		return
	}
	m.count.Add(-1)

	m.log.Infow("session removed",
		"session_id", id,
		"reason", reason,
		"age", time.Since(w.CreatedAt).Round(time.Second),
		"total_sessions", m.count.Load(),
	)
}

// Close stops eviction and waits for in-flight fetches of all sessions.
func (m *Manager) Close() {
	m.log.Info("shutting down session manager...")

	m.cancel()
	m.wg.Wait()

	var drained int
	m.sessions.Range(func(_, value any) bool {
		value.(*Workspace).Wait()
		drained++
		return true
	})

	m.log.Infow("session manager closed", "sessions_drained", drained)
}

// Stats returns current manager statistics.
func (m *Manager) Stats() ManagerStats {
	stats := ManagerStats{TotalSessions: int(m.count.Load())}

	m.sessions.Range(func(key, value any) bool {
		w := value.(*Workspace)
		snap := w.Table.Snapshot()
		if snap.Load.IsLoading {
			stats.LoadingSessions++
		}
		stats.Sessions = append(stats.Sessions, SessionStats{
			SessionID:  key.(string),
			Page:       snap.Page.Page,
			PageSize:   snap.Page.PageSize,
			FilterMode: snap.Filter.Mode(),
			ActiveRefs: int(w.refCount.Load()),
			LastUsed:   w.LastUsed(),
		})
		return true
	})

	return stats
}

// ManagerStats contains manager runtime statistics.
type ManagerStats struct {
	TotalSessions   int            `json:"totalSessions"`
	LoadingSessions int            `json:"loadingSessions"`
	Sessions        []SessionStats `json:"sessions"`
}

// SessionStats contains per-session statistics.
type SessionStats struct {
	SessionID  string    `json:"sessionId"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	FilterMode string    `json:"filterMode"`
	ActiveRefs int       `json:"activeRefs"`
	LastUsed   time.Time `json:"lastUsed"`
}
