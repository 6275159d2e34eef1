package alerts

import "context"

// SMSSender envía un SMS al número de alerta configurado.
type SMSSender interface {
	SendSMS(ctx context.Context, body string) error
}

// VoiceCaller hace una llamada al número de alerta reproduciendo twiml.
type VoiceCaller interface {
	Call(ctx context.Context, twiml string) error
}

// Notifier es un canal adicional de texto (Telegram, ...).
type Notifier interface {
	Name() string
	Notify(ctx context.Context, a Alert) error
}

// Publisher recibe cada alerta despachada (feed en vivo para la UI).
type Publisher interface {
	Publish(a Alert)
}
