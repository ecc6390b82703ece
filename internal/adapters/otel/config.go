package otel

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string `envconfig:"ABADMIN_OTEL_ENDPOINT"`
	Enabled  bool   `envconfig:"ABADMIN_OTEL_ENABLED" default:"false"`
	Insecure bool   `envconfig:"ABADMIN_OTEL_INSECURE" default:"false"`
}
