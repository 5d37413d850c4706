package metrics

// Config defines settings for metrics sinks.
type Config struct {
	// Prometheus enables the Prometheus sink and its /metrics endpoint.
	Prometheus bool `json:"prometheus"`
	// PrometheusPort is the listen port for the metrics endpoint.
	PrometheusPort int `json:"prometheus_port"`
	// Influx settings; the sink is enabled when URL is non-empty.
	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9094
	}
}
