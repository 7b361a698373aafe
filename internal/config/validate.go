package config

import (
	"fmt"
	"strings"

	"routenet/pkg/routing"
)

// Validate checks a normalized config for correctness and cross references.
func Validate(cfg *Config) error {
	var issues issueList

	if cfg.Version == 0 {
		issues.add("version", "is required")
	} else if cfg.Version != 1 {
		issues.addf("version", "unsupported version %d", cfg.Version)
	}
	if cfg.WindowTicks <= 0 {
		issues.add("window_ticks", "must be > 0")
	}
	if cfg.TickMillis <= 0 {
		issues.add("tick_millis", "must be > 0")
	}

	linkKeys := map[string]struct{}{}
	positions := map[PositionConfig]string{}
	for i, link := range cfg.Links {
		prefix := fmt.Sprintf("links[%d]", i)
		if link.Key == "" {
			issues.add(prefix+".key", "is required")
		} else if _, exists := linkKeys[link.Key]; exists {
			issues.addf("links.key", "duplicate key %q", link.Key)
		} else {
			linkKeys[link.Key] = struct{}{}
		}
		if other, exists := positions[link.Position]; exists {
			issues.addf(prefix+".position", "already used by link %q", other)
		} else {
			positions[link.Position] = link.Key
		}
		validateRate(&issues, prefix+".rate", link.Rate)
		for j, side := range link.Blocked {
			validateSide(&issues, fmt.Sprintf("%s.blocked[%d]", prefix, j), side)
		}
		validateCovers(&issues, prefix, link.Covers)
	}

	sinkKeys := map[string]struct{}{}
	for i, sink := range cfg.Sinks {
		prefix := fmt.Sprintf("sinks[%d]", i)
		if sink.Key == "" {
			issues.add(prefix+".key", "is required")
		} else if _, exists := sinkKeys[sink.Key]; exists {
			issues.addf("sinks.key", "duplicate key %q", sink.Key)
		} else {
			sinkKeys[sink.Key] = struct{}{}
		}
		switch sink.Kind {
		case "inventory":
			if sink.Slots <= 0 {
				issues.add(prefix+".slots", "must be > 0")
			}
			if sink.SlotLimit <= 0 {
				issues.add(prefix+".slot_limit", "must be > 0")
			}
		case "void":
		default:
			issues.addf(prefix+".kind", "unsupported kind %q", sink.Kind)
		}
		if sink.Drain < 0 {
			issues.add(prefix+".drain", "must be >= 0")
		}
		validateCovers(&issues, prefix, sink.Covers)
	}

	for i, route := range cfg.Routes {
		prefix := fmt.Sprintf("routes[%d]", i)
		validateEndpoint(&issues, prefix+".from", route.From, linkKeys)
		validateEndpoint(&issues, prefix+".via", route.Via, linkKeys)
		if strings.TrimSpace(route.Sink) == "" {
			issues.add(prefix+".sink", "is required")
		} else if _, ok := sinkKeys[route.Sink]; !ok {
			issues.addf(prefix+".sink", "unknown sink %q", route.Sink)
		}
		if route.Rate != "" {
			validateRate(&issues, prefix+".rate", route.Rate)
		}
		for j, filter := range route.Filters {
			validateFilter(&issues, fmt.Sprintf("%s.filters[%d]", prefix, j), filter)
		}
	}

	sourceKeys := map[string]struct{}{}
	for i, source := range cfg.Sources {
		prefix := fmt.Sprintf("sources[%d]", i)
		if _, exists := sourceKeys[source.Key]; exists {
			issues.addf("sources.key", "duplicate key %q", source.Key)
		}
		sourceKeys[source.Key] = struct{}{}
		validateEndpoint(&issues, prefix+".from", source.From, linkKeys)
		if strings.TrimSpace(source.Resource) == "" {
			issues.add(prefix+".resource", "is required")
		}
		if source.Count < 0 {
			issues.add(prefix+".count", "must be >= 0")
		}
		if source.Cover != nil {
			validateCover(&issues, prefix+".cover", *source.Cover, false)
		}
	}

	switch cfg.Journal.Kind {
	case "none", "memory", "duckdb":
	case "tigerbeetle":
		if len(cfg.Journal.Addresses) == 0 {
			issues.add("journal.addresses", "at least one address is required")
		}
	default:
		issues.addf("journal.kind", "unsupported kind %q", cfg.Journal.Kind)
	}

	return issues.err()
}

func validateEndpoint(issues *issueList, field string, endpoint EndpointConfig, links map[string]struct{}) {
	if endpoint.Link == "" {
		issues.add(field+".link", "is required")
	} else if _, ok := links[endpoint.Link]; !ok {
		issues.addf(field+".link", "unknown link %q", endpoint.Link)
	}
	validateSide(issues, field+".side", endpoint.Side)
}

func validateSide(issues *issueList, field, side string) {
	if side == "" {
		issues.add(field, "is required")
		return
	}
	if _, err := routing.ParseFacing(side); err != nil {
		issues.add(field, err.Error())
	}
}

func validateRate(issues *issueList, field, rate string) {
	if _, err := routing.ParseRate(rate); err != nil {
		issues.add(field, err.Error())
	}
}

func validateCovers(issues *issueList, prefix string, covers []CoverConfig) {
	sides := map[string]struct{}{}
	for i, cover := range covers {
		field := fmt.Sprintf("%s.covers[%d]", prefix, i)
		validateCover(issues, field, cover, true)
		if _, exists := sides[cover.Side]; exists && cover.Side != "" {
			issues.addf(field+".side", "side %q already has a cover", cover.Side)
		}
		sides[cover.Side] = struct{}{}
	}
}

func validateCover(issues *issueList, field string, cover CoverConfig, needSide bool) {
	if needSide {
		validateSide(issues, field+".side", cover.Side)
	}
	switch cover.Kind {
	case "conveyor", "robotic_arm":
		if cover.Role != "import" && cover.Role != "export" {
			issues.addf(field+".role", "unsupported role %q", cover.Role)
		}
		if _, ok := routing.ParseDistributionMode(cover.Distribution); !ok {
			issues.addf(field+".distribution", "unsupported distribution %q", cover.Distribution)
		}
		if cover.Kind == "robotic_arm" {
			mode, ok := routing.ParseStrategyMode(cover.Strategy)
			if !ok {
				issues.addf(field+".strategy", "unsupported strategy %q", cover.Strategy)
			} else if mode != routing.Unrestricted && cover.Quantity <= 0 {
				issues.add(field+".quantity", "must be > 0 for "+cover.Strategy)
			}
		}
	case "filter":
		if cover.Filter == nil {
			issues.add(field+".filter", "is required")
		} else {
			validateFilter(issues, field+".filter", *cover.Filter)
		}
	case "limit":
		if cover.Limit <= 0 {
			issues.add(field+".limit", "must be > 0")
		}
	case "":
		issues.add(field+".kind", "is required")
	default:
		issues.addf(field+".kind", "unsupported kind %q", cover.Kind)
	}
}

func validateFilter(issues *issueList, field string, filter FilterConfig) {
	switch filter.Mode {
	case "insert", "extract", "both":
	default:
		issues.addf(field+".mode", "unsupported mode %q", filter.Mode)
	}
	if len(filter.Resources) == 0 && !filter.Blacklist {
		issues.add(field+".resources", "an empty whitelist admits nothing")
	}
	for i, resource := range filter.Resources {
		if resource == "" {
			issues.add(fmt.Sprintf("%s.resources[%d]", field, i), "is required")
		}
	}
}
