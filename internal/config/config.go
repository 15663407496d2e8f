// Package config reads and validates the router's configuration file.
// The distilled protocol specification treats configuration reading as
// an external collaborator; this package is this daemon's concrete
// implementation of that collaborator, modeled on the INI-style format
// read by configparser in the original reference implementation:
//
//	[RIP_Demon_Parameters]
//	router_id = 1
//	input_ports = 10000,10001
//	outputs = 20000-7-2,20001-1-5
//	timeout_value = 18
//	periodic_value = 3
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Output is one configured neighbor, in "port-metric-router_id" form.
type Output struct {
	Port       int
	LinkMetric int
	RouterID   int
}

// Config is the fully parsed and validated router configuration.
type Config struct {
	RouterID        int
	InputPorts      []int
	Outputs         []Output
	TimeoutValue    time.Duration
	PeriodicValue   time.Duration
	LogLevel        string
	MetricsAddr     string
}

// InvalidConfig reports a specific field/reason validation failure and is
// fatal at startup.
type InvalidConfig struct {
	Field  string
	Reason string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

const section = "RIP_Demon_Parameters"

// Load reads, parses and validates the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := parse(f)
	if err != nil {
		return nil, err
	}

	return build(raw)
}

type rawFields struct {
	routerID      string
	inputPorts    string
	outputs       string
	timeoutValue  string
	periodicValue string
	logLevel      string
	metricsAddr   string
}

func parse(r io.Reader) (*rawFields, error) {
	raw := &rawFields{}
	scanner := bufio.NewScanner(r)
	inSection := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inSection = strings.TrimSpace(line[1:len(line)-1]) == section
			continue
		}
		if !inSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &InvalidConfig{Field: line, Reason: "expected key = value"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "router_id":
			raw.routerID = value
		case "input_ports":
			raw.inputPorts = value
		case "outputs":
			raw.outputs = value
		case "timeout_value":
			raw.timeoutValue = value
		case "periodic_value":
			raw.periodicValue = value
		case "log_level":
			raw.logLevel = value
		case "metrics_addr":
			raw.metricsAddr = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	return raw, nil
}

func build(raw *rawFields) (*Config, error) {
	routerID, err := strconv.Atoi(raw.routerID)
	if err != nil {
		return nil, &InvalidConfig{Field: "router_id", Reason: "must be an integer"}
	}
	if routerID < 1 || routerID > 64000 {
		return nil, &InvalidConfig{Field: "router_id", Reason: "must be in [1, 64000]"}
	}

	inputPorts, err := splitInts(raw.inputPorts)
	if err != nil || len(inputPorts) == 0 {
		return nil, &InvalidConfig{Field: "input_ports", Reason: "must be a nonempty comma-separated list of integers"}
	}

	used := make(map[int]bool)
	for _, p := range inputPorts {
		if p < 1024 || p > 64000 {
			return nil, &InvalidConfig{Field: "input_ports", Reason: fmt.Sprintf("port %d out of range [1024, 64000]", p)}
		}
		if used[p] {
			return nil, &InvalidConfig{Field: "input_ports", Reason: fmt.Sprintf("duplicate port %d", p)}
		}
		used[p] = true
	}

	outputs, err := parseOutputs(raw.outputs)
	if err != nil {
		return nil, err
	}

	seenRouterIDs := make(map[int]bool)
	for _, o := range outputs {
		if o.Port < 1024 || o.Port > 64000 {
			return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("port %d out of range [1024, 64000]", o.Port)}
		}
		if used[o.Port] {
			return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("port %d collides with another input or output port", o.Port)}
		}
		used[o.Port] = true
		if o.LinkMetric < 1 || o.LinkMetric > 15 {
			return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("metric %d out of range [1, 15]", o.LinkMetric)}
		}
		if o.RouterID == routerID {
			return nil, &InvalidConfig{Field: "outputs", Reason: "a neighbor's router_id must not equal this router's own router_id"}
		}
		if seenRouterIDs[o.RouterID] {
			return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("duplicate neighbor router_id %d", o.RouterID)}
		}
		seenRouterIDs[o.RouterID] = true
	}
	if len(outputs) == 0 {
		return nil, &InvalidConfig{Field: "outputs", Reason: "must configure at least one neighbor"}
	}

	timeoutValue, err := strconv.Atoi(raw.timeoutValue)
	if err != nil || timeoutValue <= 0 {
		return nil, &InvalidConfig{Field: "timeout_value", Reason: "must be a positive integer number of seconds"}
	}
	periodicValue, err := strconv.Atoi(raw.periodicValue)
	if err != nil || periodicValue <= 0 {
		return nil, &InvalidConfig{Field: "periodic_value", Reason: "must be a positive integer number of seconds"}
	}
	if timeoutValue != 6*periodicValue {
		return nil, &InvalidConfig{Field: "timeout_value", Reason: "must equal 6 * periodic_value"}
	}

	cfg := &Config{
		RouterID:      routerID,
		InputPorts:    inputPorts,
		Outputs:       outputs,
		TimeoutValue:  time.Duration(timeoutValue) * time.Second,
		PeriodicValue: time.Duration(periodicValue) * time.Second,
		LogLevel:      raw.logLevel,
		MetricsAddr:   raw.metricsAddr,
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = "127.0.0.1:0"
	}
	return cfg, nil
}

func splitInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty")
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseOutputs(s string) ([]Output, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Output, 0, len(parts))
	for _, p := range parts {
		fields := strings.Split(strings.TrimSpace(p), "-")
		if len(fields) != 3 {
			return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("%q must be of the form port-metric-router_id", p)}
		}
		nums := make([]int, 3)
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, &InvalidConfig{Field: "outputs", Reason: fmt.Sprintf("%q is not an integer in %q", f, p)}
			}
			nums[i] = n
		}
		out = append(out, Output{Port: nums[0], LinkMetric: nums[1], RouterID: nums[2]})
	}
	return out, nil
}
