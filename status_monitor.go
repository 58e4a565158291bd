package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// This file contains the model status monitor. It polls the prediction
// backend's status endpoint, normalizes the answer into the tri-state
// {active, fallback, error} machine and optionally debounces transitions so
// a single flaky poll does not flap the dashboard's status banner.

type StatusMonitor struct {
	cfg          *apiConfig
	mu           sync.Mutex
	current      ModelStatus
	pendingState ModelState
	pendingSince time.Time
	now          func() time.Time
}

func NewStatusMonitor(cfg *apiConfig) *StatusMonitor {
	return &StatusMonitor{
		cfg: cfg,
		current: ModelStatus{
			State:       ModelStateError,
			ModelName:   cfg.fallbackModelName,
			Accuracy:    cfg.fallbackModelAccuracy,
			Description: "model status not checked yet",
		},
		now: time.Now,
	}
}

// Status returns the currently reported status. Safe for concurrent use
// against scheduled Check runs.
func (m *StatusMonitor) Status() ModelStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Check polls the remote status endpoint once and feeds the result through
// the debounce. With a zero hold every check adopts the freshly derived
// state. With a positive hold a changed state must be observed continuously
// for the whole hold window before the monitor reports it; an unchanged
// observation clears any pending change. The very first check always adopts
// so the service does not sit on the startup placeholder.
func (m *StatusMonitor) Check(ctx context.Context) {
	candidate := m.deriveCandidate(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.current.CheckedAt.IsZero() || m.cfg.statusHold <= 0 || candidate.State == m.current.State:
		if candidate.State != m.current.State {
			m.cfg.logger.Info("model status changed", "from", m.current.State, "to", candidate.State)
		}
		m.current = candidate
		m.pendingState = ""
	case m.pendingState != candidate.State:
		m.pendingState = candidate.State
		m.pendingSince = m.now()
		m.cfg.logger.Debug("model status change pending", "current", m.current.State, "candidate", candidate.State)
	case m.now().Sub(m.pendingSince) >= m.cfg.statusHold:
		m.cfg.logger.Info("model status changed", "from", m.current.State, "to", candidate.State)
		m.current = candidate
		m.pendingState = ""
	default:
		m.cfg.logger.Debug("model status change still pending", "candidate", candidate.State)
	}

	modelStatusGauge.Set(modelStateValue(m.current.State))
}

// deriveCandidate maps one poll of the remote endpoint onto the tri-state
// machine. Transport failures, non-2xx answers and unrecognized payloads all
// collapse to the error state carrying the configured fallback identity.
func (m *StatusMonitor) deriveCandidate(ctx context.Context) ModelStatus {
	checkedAt := m.now()

	remote, err := m.cfg.prediction.ModelStatus(ctx)
	if err != nil {
		m.cfg.logger.Warn("model status check failed", "error", err)
		return ModelStatus{
			State:       ModelStateError,
			ModelName:   m.cfg.fallbackModelName,
			Accuracy:    m.cfg.fallbackModelAccuracy,
			Description: "prediction API unreachable",
			CheckedAt:   checkedAt,
		}
	}

	switch remote.Status {
	case "trained_model_active", "model_active":
		return ModelStatus{
			State:       ModelStateActive,
			ModelName:   remote.ModelName,
			Accuracy:    remote.Accuracy,
			Description: remote.Description,
			CheckedAt:   checkedAt,
		}
	case "intelligent_fallback":
		return ModelStatus{
			State:       ModelStateFallback,
			ModelName:   remote.ModelName,
			Accuracy:    remote.Accuracy,
			Description: remote.Description,
			CheckedAt:   checkedAt,
		}
	default:
		m.cfg.logger.Warn("unrecognized model status", "status", remote.Status)
		return ModelStatus{
			State:       ModelStateError,
			ModelName:   m.cfg.fallbackModelName,
			Accuracy:    m.cfg.fallbackModelAccuracy,
			Description: fmt.Sprintf("unrecognized status %q", remote.Status),
			CheckedAt:   checkedAt,
		}
	}
}
