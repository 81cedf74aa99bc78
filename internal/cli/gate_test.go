package cli

import (
	"strings"
	"testing"
)

func TestGateVerifyFlag(t *testing.T) {
	flag := gateCmd.Flags().Lookup("verify")
	if flag == nil {
		t.Fatal("gate command is missing the --verify flag")
	}
	if flag.DefValue != "true" {
		t.Errorf("--verify default = %q, want %q", flag.DefValue, "true")
	}
	if !strings.Contains(flag.Usage, "--verify=false") {
		t.Errorf("--verify usage %q should explain how to skip the stage", flag.Usage)
	}
	if !strings.Contains(gateCmd.Long, "--verify=false") {
		t.Error("gate long help should document skipping the verify stage")
	}
}
