package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultWindowTicks = 20
	DefaultTickMillis  = 50
	DefaultSlots       = 27
	DefaultSlotLimit   = 64
	DefaultRate        = "1"
)

// Normalize fills defaults and canonicalizes names in place.
func Normalize(cfg *Config) {
	if cfg.WindowTicks == 0 {
		cfg.WindowTicks = DefaultWindowTicks
	}
	if cfg.TickMillis == 0 {
		cfg.TickMillis = DefaultTickMillis
	}
	for i := range cfg.Links {
		link := &cfg.Links[i]
		link.Key = strings.TrimSpace(link.Key)
		if strings.TrimSpace(link.Rate) == "" {
			link.Rate = DefaultRate
		}
		for j := range link.Blocked {
			link.Blocked[j] = lower(link.Blocked[j])
		}
		normalizeCovers(link.Covers)
	}
	for i := range cfg.Sinks {
		sink := &cfg.Sinks[i]
		sink.Key = strings.TrimSpace(sink.Key)
		if sink.Kind == "" {
			sink.Kind = "inventory"
		}
		if sink.Slots == 0 {
			sink.Slots = DefaultSlots
		}
		if sink.SlotLimit == 0 {
			sink.SlotLimit = DefaultSlotLimit
		}
		normalizeCovers(sink.Covers)
	}
	for i := range cfg.Routes {
		route := &cfg.Routes[i]
		route.From.Side = lower(route.From.Side)
		if route.Via.Link == "" {
			route.Via.Link = route.From.Link
		}
		route.Via.Side = lower(route.Via.Side)
		for j := range route.Filters {
			normalizeFilter(&route.Filters[j])
		}
	}
	for i := range cfg.Sources {
		source := &cfg.Sources[i]
		source.From.Side = lower(source.From.Side)
		if source.Key == "" {
			source.Key = source.From.Link + "/" + source.From.Side
		}
		if source.Cover != nil {
			normalizeCover(source.Cover)
		}
	}
	cfg.Journal.Kind = lower(cfg.Journal.Kind)
	if cfg.Journal.Kind == "" {
		cfg.Journal.Kind = "none"
	}
}

func normalizeCovers(covers []CoverConfig) {
	for i := range covers {
		normalizeCover(&covers[i])
	}
}

func normalizeCover(cover *CoverConfig) {
	cover.Side = lower(cover.Side)
	cover.Kind = lower(cover.Kind)
	switch cover.Kind {
	case "conveyor", "robotic_arm":
		if cover.Role == "" {
			cover.Role = "export"
		}
		if cover.Distribution == "" {
			cover.Distribution = "first"
		}
		if cover.Kind == "robotic_arm" && cover.Strategy == "" {
			cover.Strategy = "unrestricted"
		}
	}
	if cover.Filter != nil {
		normalizeFilter(cover.Filter)
	}
}

func normalizeFilter(filter *FilterConfig) {
	if filter.Mode == "" {
		filter.Mode = "both"
	}
	for i := range filter.Resources {
		filter.Resources[i] = strings.TrimSpace(filter.Resources[i])
	}
}

func lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
