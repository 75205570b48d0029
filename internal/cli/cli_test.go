package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEvalCommand_SingleConstant(t *testing.T) {
	out, err := runCommand(t, "eval", "m_proton")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "m_proton") || !strings.Contains(out, "0.93") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEvalCommand_UnknownConstant(t *testing.T) {
	out, err := runCommand(t, "eval", "unobtainium")
	if !errors.Is(err, ErrEvaluationFailed) {
		t.Fatalf("expected ErrEvaluationFailed, got %v", err)
	}
	if !strings.Contains(out, "FAILED") {
		t.Fatalf("expected FAILED marker in output: %q", out)
	}
	if got := ExitCode(err); got != ExitEvaluationFailure {
		t.Fatalf("expected exit code %d, got %d", ExitEvaluationFailure, got)
	}
}

func TestCouplingsCommand_DefaultsToZPole(t *testing.T) {
	out, err := runCommand(t, "couplings")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, want := range []string{"g1", "g2", "g3", "sin2thetaW", "91.1876"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestCouplingsCommand_RejectsBadScale(t *testing.T) {
	for _, args := range [][]string{
		{"couplings", "not-a-number"},
		{"couplings", "-10"},
		{"couplings", "100", "200"},
	} {
		_, err := runCommand(t, args...)
		if err == nil {
			t.Fatalf("expected error for %v", args)
		}
		if got := ExitCode(err); got != ExitInvalidInvocation {
			t.Fatalf("expected exit code %d for %v, got %d (%v)", ExitInvalidInvocation, args, got, err)
		}
	}
}

func TestRootCommand_InvalidInvocationExitCode(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"unknown subcommand", []string{"frobnicate"}},
		{"unknown flag", []string{"eval", "--bogus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, tc.args...)
			if err == nil {
				t.Fatalf("expected error for %v", tc.args)
			}
			if got := ExitCode(err); got != ExitInvalidInvocation {
				t.Fatalf("expected exit code %d, got %d (%v)", ExitInvalidInvocation, got, err)
			}
		})
	}
}

func TestGraphCommand_EdgeList(t *testing.T) {
	out, err := runCommand(t, "graph")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "phi_0 -> m_proton") {
		t.Fatalf("expected dependency edge in output: %q", out)
	}
}

func TestGraphCommand_DOT(t *testing.T) {
	out, err := runCommand(t, "graph", "--dot")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasPrefix(out, "digraph constants {") {
		t.Fatalf("expected DOT header: %q", out)
	}
	if !strings.Contains(out, `"phi_0" [shape=box]`) {
		t.Fatalf("expected fundamental rendered as box: %q", out)
	}
}

func TestExitCode_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{ErrEvaluationFailed, ExitEvaluationFailure},
		{fmt.Errorf("wrapped: %w", ErrEvaluationFailed), ExitEvaluationFailure},
		{ErrInvalidInvocation, ExitInvalidInvocation},
		{fmt.Errorf("%w: --bogus", ErrInvalidInvocation), ExitInvalidInvocation},
		{errors.New(`unknown command "frobnicate" for "topoconst"`), ExitInvalidInvocation},
		{errors.New("boom"), ExitInternalError},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
