package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrChannelNotConfigured = errors.New("alert channel not configured")
)

const (
	DefaultTimeout    = 10 * time.Second
	defaultMaxHistory = 100
)

type Options struct {
	SMS       SMSSender   // nil = sin SMS
	Caller    VoiceCaller // nil = sin llamadas
	Notifiers []Notifier
	Publisher Publisher

	// Timeout por envío; los proveedores no deben bloquear un tick del monitor.
	Timeout    time.Duration
	MaxHistory int

	Logger logger.Logger
}

type Service struct {
	sms       SMSSender
	caller    VoiceCaller
	notifiers []Notifier
	publisher Publisher

	timeout    time.Duration
	maxHistory int
	log        logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	history []Alert
}

func NewService(opts Options) *Service {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		sms:        opts.SMS,
		caller:     opts.Caller,
		notifiers:  opts.Notifiers,
		publisher:  opts.Publisher,
		timeout:    timeout,
		maxHistory: maxHistory,
		log:        log.With(map[string]any{"component": "alerts"}),
		now:        time.Now,
	}
}

// StockExhausted avisa por SMS (y canales extra) que un slot se quedó sin pastillas.
func (s *Service) StockExhausted(ctx context.Context, slot medications.Slot) error {
	msg := stockExhaustedMessage(slot)
	a := s.newAlert(KindStockExhausted, slot, msg)

	var errs []error
	if s.sms == nil {
		errs = append(errs, s.fail(&a, "sms", ErrChannelNotConfigured))
	} else {
		err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.sms.SendSMS(ctx, msg)
		})
		if err != nil {
			errs = append(errs, s.fail(&a, "sms", err))
		} else {
			a.Delivered = append(a.Delivered, "sms")
		}
	}

	errs = append(errs, s.notifyExtra(ctx, &a)...)
	s.record(a)
	return errors.Join(errs...)
}

// MissedDose hace una llamada de voz avisando que no se tomó la dosis del slot.
func (s *Service) MissedDose(ctx context.Context, slot medications.Slot) error {
	msg := missedDoseMessage(slot)
	a := s.newAlert(KindMissedDose, slot, msg)

	var errs []error
	if s.caller == nil {
		errs = append(errs, s.fail(&a, "call", ErrChannelNotConfigured))
	} else {
		twiml, err := VoiceResponseXML(msg)
		if err == nil {
			err = s.withTimeout(ctx, func(ctx context.Context) error {
				return s.caller.Call(ctx, twiml)
			})
		}
		if err != nil {
			errs = append(errs, s.fail(&a, "call", err))
		} else {
			a.Delivered = append(a.Delivered, "call")
		}
	}

	errs = append(errs, s.notifyExtra(ctx, &a)...)
	s.record(a)
	return errors.Join(errs...)
}

// Recent devuelve hasta n alertas, la más reciente primero.
func (s *Service) Recent(n int) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Alert, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.history[i])
	}
	return out
}

func (s *Service) newAlert(kind Kind, slot medications.Slot, msg string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Kind:      kind,
		Slot:      slot,
		Message:   msg,
		CreatedAt: s.now(),
	}
}

func (s *Service) notifyExtra(ctx context.Context, a *Alert) []error {
	var errs []error
	for _, n := range s.notifiers {
		alert := *a
		err := s.withTimeout(ctx, func(ctx context.Context) error {
			return n.Notify(ctx, alert)
		})
		if err != nil {
			errs = append(errs, s.fail(a, n.Name(), err))
			continue
		}
		a.Delivered = append(a.Delivered, n.Name())
	}
	return errs
}

func (s *Service) fail(a *Alert, channel string, err error) error {
	a.Failures = append(a.Failures, channel+": "+err.Error())
	s.log.Error("alert delivery failed", map[string]any{
		"alert_id": a.ID,
		"kind":     string(a.Kind),
		"slot":     string(a.Slot),
		"channel":  channel,
		"err":      err,
	})
	return fmt.Errorf("%s: %w", channel, err)
}

func (s *Service) record(a Alert) {
	s.mu.Lock()
	s.history = append(s.history, a)
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append([]Alert(nil), s.history[over:]...)
	}
	s.mu.Unlock()

	if len(a.Delivered) > 0 {
		s.log.Info("alert sent", map[string]any{
			"alert_id":  a.ID,
			"kind":      string(a.Kind),
			"slot":      string(a.Slot),
			"delivered": a.Delivered,
		})
	}

	if s.publisher != nil {
		s.publisher.Publish(a)
	}
}

func (s *Service) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}
