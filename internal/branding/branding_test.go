package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "create-expressr-app" {
		t.Errorf("CLIName() = %q, want %q", got, "create-expressr-app")
	}
	if got := HomeDir(); got != ".expressr" {
		t.Errorf("HomeDir() = %q, want %q", got, ".expressr")
	}
	if got := DisplayName(); got != "Expressr" {
		t.Errorf("DisplayName() = %q, want %q", got, "Expressr")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("port"); got != "EXPRESSR_PORT" {
		t.Errorf("EnvVar(port) = %q, want %q", got, "EXPRESSR_PORT")
	}
}
