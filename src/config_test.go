package aloha

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const minimalValidYAML = `
datarate: 8000
queue: 10
maxsize: 1000
range: 500
horizon: 100
seed: 1
nodes:
  - id: a
    x: 0
    y: 0
    protocol: aloha
    interarrival: {kind: constant, value: 1}
    size: {kind: constant, value: 100}
    processing: {kind: constant, value: 0}
  - id: b
    x: 10
    y: 0
    protocol: simple
    persistence: 0.5
    interarrival: {kind: constant, value: 1}
    size: {kind: constant, value: 100}
    processing: {kind: constant, value: 0}
`

func TestLoadConfigAcceptsAValidTopology(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	assert.Len(t, cfg.Nodes, 2)
	assert.Equal(t, int64(1), cfg.Seed)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(strings.NewReader(minimalValidYAML + "bogus_field: true\n"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryProblemAtOnce(t *testing.T) {
	cfg := &Config{} // everything missing/invalid
	err := cfg.Validate()
	assert.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "datarate")
	assert.Contains(t, msg, "maxsize")
	assert.Contains(t, msg, "range")
	assert.Contains(t, msg, "horizon")
	assert.Contains(t, msg, "at least one node")
}

func TestValidateRejectsDuplicateNodeIDs(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	cfg.Nodes[1].ID = cfg.Nodes[0].ID
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBothOrNeitherOfPlanarAndGeodeticPosition(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)

	lat, lon := 42.0, -71.0
	cfg.Nodes[0].Lat = &lat
	cfg.Nodes[0].Lon = &lon // now both x/y and lat/lon are set
	assert.Error(t, cfg.Validate())

	cfg.Nodes[0].X = nil
	cfg.Nodes[0].Y = nil // now only lat/lon, but no origin
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsSimpleProtocolWithoutPersistence(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	cfg.Nodes[1].Persistence = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsPersistenceOnNonSimpleProtocol(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	p := 0.5
	cfg.Nodes[0].Persistence = &p // node 0 is aloha
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangePersistence(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	p := 1.5
	cfg.Nodes[1].Persistence = &p
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownProtocol(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)
	cfg.Nodes[0].Protocol = "tdma"
	assert.Error(t, cfg.Validate())
}

func TestInterarrivalLabel(t *testing.T) {
	cases := []struct {
		spec DistSpec
		want string
	}{
		{DistSpec{Kind: "constant", Value: 2}, "constant2"},
		{DistSpec{Kind: "uniform", Min: 1, Max: 3}, "uniform1-3"},
		{DistSpec{Kind: "exponential", Mean: 5}, "exp5"},
	}
	for _, c := range cases {
		cfg := &Config{Nodes: []NodeSpec{{Interarrival: c.spec}}}
		assert.Equal(t, c.want, cfg.InterarrivalLabel())
	}
}

func TestConfigBuildConstructsARunnableSimulation(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(minimalValidYAML))
	assert.NoError(t, err)

	logger, err := NewEventLogger(discard{})
	assert.NoError(t, err)

	sim, err := cfg.Build(logger)
	assert.NoError(t, err)
	assert.NotNil(t, sim.Node("a"))
	assert.NotNil(t, sim.Node("b"))
	assert.Equal(t, Simple, sim.Node("b").Protocol)
	assert.Equal(t, 0.5, sim.Node("b").Persistence)
}

func TestConfigBuildResolvesGeodeticPositionsThroughTheOrigin(t *testing.T) {
	originLat, originLon := 42.66, -71.36
	lat, lon := 42.661, -71.36
	cfg := &Config{
		Datarate: 8000, Queue: 1, MaxSize: 1000, Range: 500, Horizon: 10, Seed: 1,
		OriginLat: &originLat, OriginLon: &originLon,
		Nodes: []NodeSpec{
			{ID: "origin", X: f64ptr(0), Y: f64ptr(0), Protocol: "aloha",
				Interarrival: DistSpec{Kind: "constant", Value: 1}, Size: DistSpec{Kind: "constant", Value: 1}, Processing: DistSpec{Kind: "constant", Value: 0}},
			{ID: "north", Lat: &lat, Lon: &lon, Protocol: "aloha",
				Interarrival: DistSpec{Kind: "constant", Value: 1}, Size: DistSpec{Kind: "constant", Value: 1}, Processing: DistSpec{Kind: "constant", Value: 0}},
		},
	}
	assert.NoError(t, cfg.Validate())

	logger, err := NewEventLogger(discard{})
	assert.NoError(t, err)
	sim, err := cfg.Build(logger)
	assert.NoError(t, err)

	assert.Contains(t, sim.Channel().Neighbors("origin"), NodeID("north"))
}

func f64ptr(v float64) *float64 { return &v }

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
