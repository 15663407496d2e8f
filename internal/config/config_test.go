package config

import (
	"strings"
	"testing"
)

const validConfig = `[RIP_Demon_Parameters]
router_id = 1
input_ports = 10000
outputs = 20000-1-2
timeout_value = 18
periodic_value = 3
`

func TestParseValidConfig(t *testing.T) {
	raw, err := parse(strings.NewReader(validConfig))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	cfg, err := build(raw)
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	if cfg.RouterID != 1 {
		t.Errorf("RouterID = %d, want 1", cfg.RouterID)
	}
	if len(cfg.InputPorts) != 1 || cfg.InputPorts[0] != 10000 {
		t.Errorf("InputPorts = %v, want [10000]", cfg.InputPorts)
	}
	if len(cfg.Outputs) != 1 || cfg.Outputs[0] != (Output{Port: 20000, LinkMetric: 1, RouterID: 2}) {
		t.Errorf("Outputs = %v, want [{20000 1 2}]", cfg.Outputs)
	}
	if cfg.TimeoutValue.Seconds() != 18 {
		t.Errorf("TimeoutValue = %v, want 18s", cfg.TimeoutValue)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, want info", cfg.LogLevel)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
		field  string
	}{
		{
			name:   "router id out of range",
			mutate: func(s string) string { return strings.Replace(s, "router_id = 1", "router_id = 70000", 1) },
			field:  "router_id",
		},
		{
			name:   "duplicate input port",
			mutate: func(s string) string { return strings.Replace(s, "input_ports = 10000", "input_ports = 10000,10000", 1) },
			field:  "input_ports",
		},
		{
			name:   "output metric too high",
			mutate: func(s string) string { return strings.Replace(s, "outputs = 20000-1-2", "outputs = 20000-16-2", 1) },
			field:  "outputs",
		},
		{
			name:   "output port collides with input",
			mutate: func(s string) string { return strings.Replace(s, "outputs = 20000-1-2", "outputs = 10000-1-2", 1) },
			field:  "outputs",
		},
		{
			name:   "neighbor router_id equals self",
			mutate: func(s string) string { return strings.Replace(s, "outputs = 20000-1-2", "outputs = 20000-1-1", 1) },
			field:  "outputs",
		},
		{
			name:   "bad timeout ratio",
			mutate: func(s string) string { return strings.Replace(s, "timeout_value = 18", "timeout_value = 20", 1) },
			field:  "timeout_value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := parse(strings.NewReader(tt.mutate(validConfig)))
			if err != nil {
				t.Fatalf("parse() error = %v", err)
			}
			_, err = build(raw)
			if err == nil {
				t.Fatalf("build() error = nil, want InvalidConfig for field %s", tt.field)
			}
			ic, ok := err.(*InvalidConfig)
			if !ok {
				t.Fatalf("build() error type = %T, want *InvalidConfig", err)
			}
			if ic.Field != tt.field {
				t.Errorf("build() field = %s, want %s", ic.Field, tt.field)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/config.ini"); err == nil {
		t.Fatalf("Load() error = nil, want error for missing file")
	}
}
