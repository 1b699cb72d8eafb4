package opensearch

// Config holds OpenSearch client connection parameters.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES" envSeparator:","`                   // Addresses is empty when the sink is disabled.
	Username     string   `env:"OPENSEARCH_USERNAME"`                                     // Username for basic auth.
	Password     string   `env:"OPENSEARCH_PASSWORD"`                                     // Password for basic auth.
	Index        string   `env:"OPENSEARCH_INDEX" envDefault:"dataguard-violations"`      // Index receives one document per violation.
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`                   // MaxRetries is passed to the client transport.
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`             // DisableRetry turns transport retries off.
}

// Enabled reports whether any address is configured.
func (c Config) Enabled() bool {
	return len(c.Addresses) > 0
}
