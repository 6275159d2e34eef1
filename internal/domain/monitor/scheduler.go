package monitor

import (
	"context"
	"fmt"
	"time"

	"pill-dispenser/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Start siembra el estado, corre un chequeo de stock inmediato y programa los dos
// jobs. Un tick que todavía corre hace que el siguiente se salte (SkipIfStillRunning)
// y un panic en un job queda logueado sin tirar el proceso (Recover).
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		return ErrAlreadyRunning
	}

	if err := m.Init(ctx); err != nil {
		// Arrancamos igual: el primer tick sin previous no alerta.
		m.log.Warn("monitor starting without initial stock snapshot", map[string]any{"err": err})
	}
	m.CheckStock(ctx)

	cl := cronLogger{log: m.log}
	c := cron.New(
		cron.WithLocation(m.clock.Location()),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(every(m.stockInterval), func() { m.CheckStock(ctx) }); err != nil {
		return fmt.Errorf("schedule stock check: %w", err)
	}
	if _, err := c.AddFunc(every(m.timingInterval), func() { m.CheckTiming(ctx) }); err != nil {
		return fmt.Errorf("schedule timing check: %w", err)
	}

	c.Start()
	m.cron = c

	m.log.Info("monitor started", map[string]any{
		"stock_interval":  m.stockInterval.String(),
		"timing_interval": m.timingInterval.String(),
		"timezone":        m.clock.Location().String(),
	})
	return nil
}

// Stop cancela los ticks futuros y espera a los que están en curso.
func (m *Monitor) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	m.log.Info("monitor stopped", nil)
}

// Run es Start + esperar ctx + Stop, para usarlo dentro de un errgroup.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	m.Stop()
	return nil
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// cronLogger adapta nuestro logger a cron.Logger (pares clave/valor variádicos).
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvToMap(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	f := kvToMap(keysAndValues)
	f["err"] = err
	l.log.Error("cron: "+msg, f)
}

func kvToMap(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}
		out[k] = kv[i+1]
	}
	return out
}
