package display

import (
	"errors"
	"fmt"
	"sync"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Manager keeps exactly one surface aligned with the platform's usable
// frame. Poll is meant to be called from the render thread on every tick.
type Manager struct {
	Platform Platform
	Logger   Logger

	mu      sync.RWMutex
	surface Surface
	frame   Frame
	pending bool
}

func NewManager(platform Platform, logger Logger) *Manager {
	return &Manager{Platform: platform, Logger: logger, pending: true}
}

// Poll refreshes the surface when a configuration change is pending. It
// never blocks.
func (m *Manager) Poll() {
	if changes := m.Platform.Changes(); changes != nil {
		select {
		case <-changes:
			m.mu.Lock()
			m.pending = true
			m.mu.Unlock()
		default:
		}
	}

	m.mu.RLock()
	pending := m.pending
	m.mu.RUnlock()
	if !pending {
		return
	}
	if err := m.Refresh(); err != nil {
		m.errorf("refresh failed: %v", err)
	}
}

// Refresh recomputes the usable frame and recreates the surface when the
// frame differs from the current one. Without a display the surface is
// torn down and the next change notification retries.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = false

	frame, err := m.Platform.UsableFrame()
	if err == nil && frame.Empty() {
		err = ErrNoDisplay
	}
	if err != nil {
		m.teardownLocked()
		if errors.Is(err, ErrNoDisplay) {
			m.infof("no display, overlay hidden until next configuration change")
			return nil
		}
		return fmt.Errorf("usable frame: %w", err)
	}

	if m.surface != nil && m.frame == frame {
		return nil
	}

	m.teardownLocked()
	surface, err := m.Platform.NewSurface(frame)
	if err != nil {
		return fmt.Errorf("create surface %vx%v: %w", frame.Width, frame.Height, err)
	}
	m.surface = surface
	m.frame = frame
	m.infof("surface at (%v,%v) size %vx%v", frame.X, frame.Y, frame.Width, frame.Height)
	return nil
}

// Frame returns the current frame, or false while no surface exists.
func (m *Manager) Frame() (Frame, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frame, m.surface != nil
}

// Surface returns the live surface, or false during a geometry transition.
func (m *Manager) Surface() (Surface, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.surface, m.surface != nil
}

// Close tears the surface down.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	return nil
}

func (m *Manager) teardownLocked() {
	if m.surface == nil {
		return
	}
	if err := m.surface.Close(); err != nil {
		m.errorf("surface close: %v", err)
	}
	m.surface = nil
	m.frame = Frame{}
}

func (m *Manager) infof(format string, args ...interface{}) {
	if m.Logger != nil {
		m.Logger.Infof("display", format, args...)
	}
}

func (m *Manager) errorf(format string, args ...interface{}) {
	if m.Logger != nil {
		m.Logger.Errorf("display", format, args...)
	}
}
