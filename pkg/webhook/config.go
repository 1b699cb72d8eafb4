package webhook

import "time"

// Config describes the endpoint that receives run events.
type Config struct {
	URL          string        `env:"DQ_WEBHOOK_URL"`                              // URL is empty when webhooks are disabled.
	Secret       string        `env:"DQ_WEBHOOK_SECRET"`                           // Secret signs payloads with HMAC-SHA256. Empty sends unsigned.
	Timeout      time.Duration `env:"DQ_WEBHOOK_TIMEOUT" envDefault:"10s"`         // Timeout bounds a single attempt.
	MaxRetries   int           `env:"DQ_WEBHOOK_MAX_RETRIES" envDefault:"3"`       // MaxRetries after the first attempt.
	OnlyFailures bool          `env:"DQ_WEBHOOK_ONLY_FAILURES" envDefault:"false"` // OnlyFailures skips passed runs.
}

// Enabled reports whether a URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
