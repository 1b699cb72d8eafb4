package email

// Config holds the notification mail settings.
// Postmark tokens are optional: without them callers fall back to DevSender,
// which writes messages to DevDir instead of sending them.
type Config struct {
	PostmarkServerToken  string   `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string   `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string   `env:"DQ_NOTIFY_FROM" envDefault:"dataguard@localhost.localdomain"`
	Recipients           []string `env:"DQ_NOTIFY_TO" envSeparator:","`
	DevDir               string   `env:"DQ_NOTIFY_DEV_DIR"`
	NotifyOnWarning      bool     `env:"DQ_NOTIFY_ON_WARNING" envDefault:"false"`
}

// Enabled reports whether any recipient is configured.
func (c Config) Enabled() bool {
	return len(c.Recipients) > 0
}

// UsePostmark reports whether both Postmark tokens are set.
func (c Config) UsePostmark() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
