package main

// Notes:
// - Chrome detection depends on the host; assertions only cover fields that
//   do not, and the exit code is checked against the reported status.
// - Container detection reads environment variables, so those tests are not
//   parallel.

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSON - JSON output structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	code := runDoctorCmd(context.Background(), []string{"--json"}, env.Environment)

	var result doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
	}
	if result.Env.OS == "" || result.Env.Arch == "" {
		t.Error("platform missing from JSON")
	}
	if !result.Fonts.Supported || result.Fonts.Families != 2 {
		t.Errorf("Fonts = %+v, want supported with 2 families", result.Fonts)
	}

	switch result.Status {
	case statusErrors:
		if code != ExitGeneral {
			t.Errorf("exit code = %d for errors status", code)
		}
	case statusReady, statusWarnings:
		if code != ExitSuccess {
			t.Errorf("exit code = %d for %s status", code, result.Status)
		}
	default:
		t.Errorf("unexpected status %q", result.Status)
	}
}

// ---------------------------------------------------------------------------
// TestCheckFonts - installed font reporting
// ---------------------------------------------------------------------------

func TestCheckFonts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fonts       stubFonts
		wantWarning string
		wantCount   int
	}{
		{"unsupported", stubFonts{}, "cannot be listed", 0},
		{"list failure", stubFonts{supported: true, err: errors.New("denied")}, "Listing installed fonts failed: denied", 0},
		{"dedupes", stubFonts{supported: true, families: []string{"Inter", "Inter", "Roboto"}}, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &doctorResult{}
			checkFonts(context.Background(), result, tt.fonts)

			if result.Fonts.Families != tt.wantCount {
				t.Errorf("Families = %d, want %d", result.Fonts.Families, tt.wantCount)
			}
			warnings := strings.Join(result.Warnings, "\n")
			if tt.wantWarning == "" && warnings != "" {
				t.Errorf("unexpected warnings: %s", warnings)
			}
			if !strings.Contains(warnings, tt.wantWarning) {
				t.Errorf("warnings %q missing %q", warnings, tt.wantWarning)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Text - human readable output
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.Fonts = nil
	runDoctorCmd(context.Background(), nil, env.Environment)

	out := env.stdout.String()
	for _, want := range []string{"htmlfont doctor", "Chrome/Chromium", "Fonts", "System fonts: unsupported", "Status:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"--help"}, ExitSuccess},
		{"unknown flag", []string{"--nope"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			if got := runDoctorCmd(context.Background(), tt.args, env.Environment); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckEnvironment - container and CI detection
// ---------------------------------------------------------------------------

func TestCheckEnvironment_ContainerWithoutNoSandbox(t *testing.T) {
	t.Setenv("HTMLFONT_CONTAINER", "1")

	result := &doctorResult{}
	checkEnvironment(result)

	if !result.Env.Container || result.Env.ContainerHint != "HTMLFONT_CONTAINER=1" {
		t.Errorf("Env = %+v", result.Env)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "ROD_NO_SANDBOX") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestCheckEnvironment_CIWithNoSandbox(t *testing.T) {
	t.Setenv("CI", "true")

	result := &doctorResult{Env: envInfo{NoSandbox: "1"}}
	checkEnvironment(result)

	if !result.Env.CI {
		t.Error("CI not detected")
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "ROD_NO_SANDBOX") {
			t.Errorf("unexpected sandbox warning: %s", w)
		}
	}
}
