package bots

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Orchestrator manages the lifecycle of registered bots. It owns no bot
// state of its own: status, positions, and signals are derived per call from
// the bot processes and the files they write.
type Orchestrator struct {
	registry  *Registry
	runner    ProcessRunner
	inspector ProcessInspector
	logger    *zap.Logger

	runTimeout time.Duration
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(registry *Registry, runner ProcessRunner, inspector ProcessInspector, runTimeout time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		runner:     runner,
		inspector:  inspector,
		logger:     logger,
		runTimeout: runTimeout,
		now:        func() time.Time { return time.Now().UTC() },
		locks:      make(map[string]*sync.Mutex),
	}
}

// WithNow injects a deterministic clock for tests.
func (o *Orchestrator) WithNow(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// List returns every registered bot with its freshly derived status.
func (o *Orchestrator) List(ctx context.Context) []Summary {
	defs := o.registry.All()
	out := make([]Summary, 0, len(defs))
	for _, def := range defs {
		out = append(out, o.summarize(ctx, def))
	}
	return out
}

// Get returns one bot's detail view, or ErrNotFound.
func (o *Orchestrator) Get(ctx context.Context, id string) (Detail, error) {
	def, ok := o.registry.Get(id)
	if !ok {
		return Detail{}, ErrNotFound
	}
	return Detail{
		Summary:     o.summarize(ctx, def),
		Balance:     100.0,
		ProfitToday: 0.0,
		ProfitTotal: 0.0,
		TradesToday: 0,
		TradesTotal: 0,
		WinRate:     0.0,
	}, nil
}

// Start invokes the bot's start script. Success does not record "active"
// anywhere; the next status query re-derives truth from the process table.
func (o *Orchestrator) Start(ctx context.Context, id string) error {
	def, ok := o.registry.Get(id)
	if !ok {
		return ErrNotFound
	}
	return o.runScript(ctx, def, "start", def.StartScript)
}

// Stop invokes the bot's stop script, symmetric to Start.
func (o *Orchestrator) Stop(ctx context.Context, id string) error {
	def, ok := o.registry.Get(id)
	if !ok {
		return ErrNotFound
	}
	return o.runScript(ctx, def, "stop", def.StopScript)
}

// Status derives the bot's runtime state from live process inspection.
// Inspection failure degrades to StatusError instead of propagating.
func (o *Orchestrator) Status(ctx context.Context, id string) (Status, error) {
	def, ok := o.registry.Get(id)
	if !ok {
		return StatusUnknown, ErrNotFound
	}
	return o.statusOf(ctx, def), nil
}

func (o *Orchestrator) summarize(ctx context.Context, def Definition) Summary {
	return Summary{
		ID:         def.ID,
		Name:       def.Name,
		Symbol:     def.Symbol,
		Interval:   def.Interval,
		Status:     o.statusOf(ctx, def),
		LastUpdate: o.now(),
	}
}

func (o *Orchestrator) statusOf(ctx context.Context, def Definition) Status {
	count, err := o.inspector.CountMatching(ctx, def.ProcessSignature())
	if err != nil {
		o.logger.Warn("process inspection failed",
			zap.String("bot_id", def.ID),
			zap.Error(err),
		)
		return StatusError
	}
	if count > 0 {
		return StatusActive
	}
	return StatusInactive
}

func (o *Orchestrator) runScript(ctx context.Context, def Definition, op, script string) error {
	lock := o.lockFor(def.ID)
	lock.Lock()
	defer lock.Unlock()

	scriptPath := filepath.Join(def.Path, script)
	if _, err := os.Stat(scriptPath); err != nil {
		o.logger.Error("script not found",
			zap.String("bot_id", def.ID),
			zap.String("script", scriptPath),
		)
		return &ProcessError{Op: op, Reason: "script missing"}
	}

	result, err := o.runner.Run(ctx, "bash "+script, def.Path, o.runTimeout)
	if err != nil {
		reason := op + " failed"
		if err == ErrRunTimeout {
			reason = "timed out"
		}
		o.logger.Error("script execution failed",
			zap.String("bot_id", def.ID),
			zap.String("script", scriptPath),
			zap.String("stderr", result.Stderr),
			zap.Error(err),
		)
		return &ProcessError{Op: op, Reason: reason, Stderr: result.Stderr, Err: err}
	}
	if result.ExitCode != 0 {
		o.logger.Error("script exited non-zero",
			zap.String("bot_id", def.ID),
			zap.String("script", scriptPath),
			zap.Int("exit_code", result.ExitCode),
			zap.String("stderr", result.Stderr),
		)
		return &ProcessError{Op: op, Reason: op + " failed", Stderr: result.Stderr}
	}

	o.logger.Info("script completed",
		zap.String("bot_id", def.ID),
		zap.String("op", op),
	)
	return nil
}

// lockFor serializes start/stop per bot id. Reads stay lock-free.
func (o *Orchestrator) lockFor(id string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	return l
}
