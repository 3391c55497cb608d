package aloha

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// NodeSpec is one node's entry in a topology file (SPEC_FULL.md section 3).
// Position is either (X, Y) in planar meters, or (Lat, Lon) in decimal
// degrees — exactly one pair must be set; geodetic positions are resolved
// against the topology-wide origin at Build time.
type NodeSpec struct {
	ID           string    `yaml:"id"`
	X            *float64  `yaml:"x,omitempty"`
	Y            *float64  `yaml:"y,omitempty"`
	Lat          *float64  `yaml:"lat,omitempty"`
	Lon          *float64  `yaml:"lon,omitempty"`
	Protocol     string    `yaml:"protocol"`
	Persistence  *float64  `yaml:"persistence,omitempty"`
	Interarrival DistSpec  `yaml:"interarrival"`
	Size         DistSpec  `yaml:"size"`
	Processing   DistSpec  `yaml:"processing"`
}

// Config is the full shape of a topology/run description consumed by the
// CLI driver, loaded from YAML. It stands in for the "configuration
// loader" spec.md section 1 treats as an external collaborator — this is
// the concrete, minimal instantiation SPEC_FULL.md section 1 adds so the
// driver has something to parse.
type Config struct {
	Datarate             float64    `yaml:"datarate"`
	Queue                int        `yaml:"queue"`
	MaxSize              int        `yaml:"maxsize"`
	Range                float64    `yaml:"range"`
	RealisticPropagation bool       `yaml:"realistic_propagation"`
	Horizon              float64    `yaml:"horizon"`
	Seed                 int64      `yaml:"seed"`
	OriginLat            *float64   `yaml:"origin_lat,omitempty"`
	OriginLon            *float64   `yaml:"origin_lon,omitempty"`
	Nodes                []NodeSpec `yaml:"nodes"`
}

// LoadConfig parses a YAML topology description and validates it,
// returning every problem found at once (section 7: configuration errors
// fail fast at construction, before the scheduling loop ever runs).
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("aloha: parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces section 7's configuration-error list. It collects
// every violation via errors.Join rather than stopping at the first one,
// so a misconfigured topology file can be fixed in one pass.
func (c *Config) Validate() error {
	var errs []error

	if c.Datarate <= 0 {
		errs = append(errs, fmt.Errorf("datarate must be positive, got %g", c.Datarate))
	}
	if c.Queue < 0 {
		errs = append(errs, fmt.Errorf("queue must be >= 0 (0 means unbounded), got %d", c.Queue))
	}
	if c.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("maxsize must be positive, got %d", c.MaxSize))
	}
	if c.Range <= 0 {
		errs = append(errs, fmt.Errorf("range must be positive, got %g", c.Range))
	}
	if c.Horizon <= 0 {
		errs = append(errs, fmt.Errorf("horizon must be positive, got %g", c.Horizon))
	}
	if len(c.Nodes) == 0 {
		errs = append(errs, errors.New("topology must declare at least one node"))
	}

	seen := make(map[string]bool)
	for i, n := range c.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("nodes[%d]: id is required", i))
		} else if seen[n.ID] {
			errs = append(errs, fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID))
		}
		seen[n.ID] = true

		hasPlanar := n.X != nil && n.Y != nil
		hasGeodetic := n.Lat != nil && n.Lon != nil
		if hasPlanar == hasGeodetic {
			errs = append(errs, fmt.Errorf("node %q: specify exactly one of (x, y) or (lat, lon)", n.ID))
		}
		if hasGeodetic && (c.OriginLat == nil || c.OriginLon == nil) {
			errs = append(errs, fmt.Errorf("node %q: geodetic position requires origin_lat/origin_lon on the topology", n.ID))
		}

		switch n.Protocol {
		case "aloha", "trivial":
			if n.Persistence != nil {
				errs = append(errs, fmt.Errorf("node %q: persistence is only meaningful for protocol=simple", n.ID))
			}
		case "simple":
			if n.Persistence == nil {
				errs = append(errs, fmt.Errorf("node %q: protocol=simple requires persistence", n.ID))
			} else if *n.Persistence < 0 || *n.Persistence > 1 {
				errs = append(errs, fmt.Errorf("node %q: persistence must be in [0,1], got %g", n.ID, *n.Persistence))
			}
		default:
			errs = append(errs, fmt.Errorf("node %q: unknown protocol %q (want aloha, trivial, or simple)", n.ID, n.Protocol))
		}

		for _, d := range []struct {
			name string
			spec DistSpec
		}{{"interarrival", n.Interarrival}, {"size", n.Size}, {"processing", n.Processing}} {
			if _, err := d.spec.Build(); err != nil {
				errs = append(errs, fmt.Errorf("node %q: %s distribution: %w", n.ID, d.name, err))
			}
		}
	}

	return errors.Join(errs...)
}

// InterarrivalLabel is the stable, filename-safe label section 6's
// `output_<interarrival>_<seed>.csv` naming scheme needs. Real topologies
// in this corpus sweep offered load by giving every node the same
// interarrival distribution, so the first node's spec is representative;
// Validate has already confirmed there's at least one node.
func (c *Config) InterarrivalLabel() string {
	spec := c.Nodes[0].Interarrival
	switch spec.Kind {
	case "constant":
		return fmt.Sprintf("constant%g", spec.Value)
	case "uniform":
		return fmt.Sprintf("uniform%g-%g", spec.Min, spec.Max)
	case "exponential":
		return fmt.Sprintf("exp%g", spec.Mean)
	default:
		return spec.Kind
	}
}

func protocolOf(s string) Protocol {
	switch s {
	case "trivial":
		return Trivial
	case "simple":
		return Simple
	default:
		return ALOHA
	}
}

// Build constructs a Simulation from a validated Config. Callers should
// call Validate (or go through LoadConfig, which always does) first;
// Build itself re-panics any distribution-build error as an invariant
// violation, since Validate is supposed to have ruled those out already.
func (c *Config) Build(logger *EventLogger) (*Simulation, error) {
	sim := NewSimulation(c.Seed, c.Range, c.RealisticPropagation, logger)

	for _, n := range c.Nodes {
		pos, err := c.positionOf(n)
		if err != nil {
			return nil, err
		}

		mustBuild := func(name string, spec DistSpec) Sampler {
			s, err := spec.Build()
			if err != nil {
				panic(invariantViolation{reason: fmt.Sprintf("node %q: %s distribution: %v", n.ID, name, err)})
			}
			return s
		}
		interarrival := mustBuild("interarrival", n.Interarrival)
		size := mustBuild("size", n.Size)
		processing := mustBuild("processing", n.Processing)

		persistence := 0.0
		if n.Persistence != nil {
			persistence = *n.Persistence
		}

		sim.AddNode(NodeConfig{
			ID:            NodeID(n.ID),
			Datarate:      c.Datarate,
			QueueCapacity: c.Queue,
			MaxSize:       c.MaxSize,
			Interarrival:  interarrival,
			Size:          size,
			Processing:    processing,
			Protocol:      protocolOf(n.Protocol),
			Persistence:   persistence,
		}, pos)
	}

	return sim, nil
}

func (c *Config) positionOf(n NodeSpec) (PlanarPosition, error) {
	if n.X != nil && n.Y != nil {
		return PlanarPosition{X: *n.X, Y: *n.Y}, nil
	}
	p, err := GeodeticToPlanar(*n.Lat, *n.Lon, *c.OriginLat, *c.OriginLon)
	if err != nil {
		return PlanarPosition{}, err
	}
	return PlanarPosition{X: p.X, Y: p.Y}, nil
}
