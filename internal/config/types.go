package config

// Config describes a routing network: links, sinks, the routes between them
// and the sources that feed them.
type Config struct {
	Version     int            `yaml:"version"`
	WindowTicks int            `yaml:"window_ticks"`
	TickMillis  int            `yaml:"tick_millis"`
	Links       []LinkConfig   `yaml:"links"`
	Sinks       []SinkConfig   `yaml:"sinks"`
	Routes      []RouteConfig  `yaml:"routes"`
	Sources     []SourceConfig `yaml:"sources"`
	Journal     JournalConfig  `yaml:"journal"`
}

type PositionConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

type LinkConfig struct {
	Key      string         `yaml:"key"`
	Position PositionConfig `yaml:"position"`
	Rate     string         `yaml:"rate"`
	Blocked  []string       `yaml:"blocked"`
	Covers   []CoverConfig  `yaml:"covers"`
}

// CoverConfig attaches an adapter to one side of a link, sink or source.
type CoverConfig struct {
	Side         string        `yaml:"side"`
	Kind         string        `yaml:"kind"`
	Role         string        `yaml:"role"`
	Distribution string        `yaml:"distribution"`
	Strategy     string        `yaml:"strategy"`
	Quantity     int           `yaml:"quantity"`
	Limit        int           `yaml:"limit"`
	Filter       *FilterConfig `yaml:"filter"`
}

type FilterConfig struct {
	Resources []string `yaml:"resources"`
	Blacklist bool     `yaml:"blacklist"`
	Mode      string   `yaml:"mode"`
}

type SinkConfig struct {
	Key       string         `yaml:"key"`
	Kind      string         `yaml:"kind"`
	Position  PositionConfig `yaml:"position"`
	Slots     int            `yaml:"slots"`
	SlotLimit int            `yaml:"slot_limit"`
	Drain     int            `yaml:"drain"`
	Covers    []CoverConfig  `yaml:"covers"`
}

// EndpointConfig names one side of one link.
type EndpointConfig struct {
	Link string `yaml:"link"`
	Side string `yaml:"side"`
}

// RouteConfig declares a candidate path from an endpoint to a sink. Via is
// the last link on the path and the side the sink sits on.
type RouteConfig struct {
	From    EndpointConfig `yaml:"from"`
	Via     EndpointConfig `yaml:"via"`
	Sink    string         `yaml:"sink"`
	Rate    string         `yaml:"rate"`
	Filters []FilterConfig `yaml:"filters"`
}

type SourceConfig struct {
	Key      string         `yaml:"key"`
	From     EndpointConfig `yaml:"from"`
	Resource string         `yaml:"resource"`
	Tag      string         `yaml:"tag"`
	Count    int            `yaml:"count"`
	Cover    *CoverConfig   `yaml:"cover"`
}

type JournalConfig struct {
	Kind      string   `yaml:"kind"`
	Path      string   `yaml:"path"`
	ClusterID uint64   `yaml:"cluster_id"`
	Addresses []string `yaml:"addresses"`
}
