package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
	"github.com/spf13/cobra"
)

// executeCommand runs the CLI with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// parsedTraceCmd returns the trace command with args parsed
func parsedTraceCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	rootCmd := newRootCmd()
	cmd, flags, err := rootCmd.Find(append([]string{"trace"}, args...))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return cmd
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		args     []string
		expected float64
	}{
		{"default", "", nil, 1.78},
		{"environment", "1.5", nil, 1.5},
		{"flag beats environment", "1.5", []string{"--n1", "1.31"}, 1.31},
		{"invalid environment ignored", "ice", nil, 1.78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RADIOPROPA_N1", tt.env)
			cfg := LoadConfig(parsedTraceCmd(t, tt.args...))
			if cfg.N1 != tt.expected {
				t.Errorf("Expected n1 %g, got %g", tt.expected, cfg.N1)
			}
		})
	}
}

func TestLoadConfig_TraceFlags(t *testing.T) {
	t.Setenv("RADIOPROPA_SURFACE_MODE", "true")
	t.Setenv("RADIOPROPA_WORKERS", "3")

	cfg := LoadConfig(parsedTraceCmd(t, "--depth", "4", "--fraction", "0.1"))
	if cfg.Depth != 4 || cfg.Fraction != 0.1 {
		t.Errorf("Expected depth 4 and fraction 0.1, got %g and %g", cfg.Depth, cfg.Fraction)
	}
	if !cfg.SurfaceMode {
		t.Error("Expected surface mode from the environment")
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers from the environment, got %d", cfg.Workers)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Angle: 30, Step: 1, MaxLength: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	for _, cfg := range []Config{
		{Angle: 90, Step: 1, MaxLength: 10},
		{Angle: -1, Step: 1, MaxLength: 10},
		{Angle: 30, Step: 0, MaxLength: 10},
		{Angle: 30, Step: 1, MaxLength: 0},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected error for %+v", cfg)
		}
	}
}

func TestFresnelCommand(t *testing.T) {
	out, err := executeCommand(t, "fresnel", "--n1", "1.0", "--n2", "1.5", "--angle", "0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "R = 0.040000") {
		t.Errorf("Expected R = 0.04 at normal incidence, got:\n%s", out)
	}
}

func TestFresnelCommand_TotalInternalReflection(t *testing.T) {
	out, err := executeCommand(t, "fresnel", "--angle", "60")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Total internal reflection") {
		t.Errorf("Expected total internal reflection from ice to air at 60°, got:\n%s", out)
	}
}

func TestTraceCommand(t *testing.T) {
	out, err := executeCommand(t, "trace", "--angle", "0", "--depth", "2", "--max-length", "5", "--workers", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Description, header and two rays from the split
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines of output, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Discontinuity") {
		t.Errorf("Expected the surface description first, got %q", lines[0])
	}
}

func TestTraceCommand_PerturbationLayer(t *testing.T) {
	out, err := executeCommand(t, "trace", "--angle", "0", "--depth", "10", "--max-length", "20", "--layer-depth", "5")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Surface and layer descriptions, header and two rays from the split
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines of output, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "Perturbation layer") {
		t.Errorf("Expected the layer description second, got %q", lines[1])
	}
}

func TestConfig_CreateLayer(t *testing.T) {
	none := Config{Fraction: 0.023}
	if layer, err := none.CreateLayer(); layer != nil || err != nil {
		t.Errorf("Expected no layer by default, got %v (%v)", layer, err)
	}

	cfg := LoadConfig(parsedTraceCmd(t, "--layer-depth", "3", "--layer-thickness", "0.5"))
	layer, err := cfg.CreateLayer()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if layer.Thickness() != 0.5 || !layer.InLayer(core.NewVec3(0, 0, -3)) {
		t.Errorf("Expected a 0.5 m layer at z=-3, got %s", layer.Description())
	}

	bad := Config{LayerDepth: 3, LayerThickness: 0, Fraction: 0.023}
	if _, err := bad.CreateLayer(); err == nil {
		t.Error("Expected error for zero layer thickness")
	}
}

func TestTraceCommand_InvalidIndex(t *testing.T) {
	if _, err := executeCommand(t, "trace", "--n1", "-1"); err == nil {
		t.Error("Expected error for a negative refractive index")
	}
}
