package cli

import (
	"strings"
	"testing"
)

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"lookup no args", []string{"lookup"}},
		{"lookup two args", []string{"lookup", "0901", "0902"}},
		{"approve no id", []string{"approve"}},
		{"reject no id", []string{"reject"}},
		{"analyze no id", []string{"analyze"}},
		{"show no id", []string{"show"}},
		{"ask no question", []string{"ask"}},
		{"list extra arg", []string{"list", "extra"}},
		{"serve extra arg", []string{"serve", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	// Validation happens before any network call, so no server is needed.
	t.Setenv("SV_SERVER_URL", "http://127.0.0.1:1")

	_, err := executeCommand("register", "--name", "A", "--phone", "0901", "--host", "B", "--purpose", "C")
	if err == nil {
		t.Fatal("expected error without --at")
	}
	if !strings.Contains(err.Error(), "visitDateTime") {
		t.Errorf("err = %v, want missing visitDateTime", err)
	}
}

func TestListRejectsUnknownView(t *testing.T) {
	t.Setenv("SV_SERVER_URL", "http://127.0.0.1:1")

	_, err := executeCommand("list", "--view", "archived")
	if err == nil || !strings.Contains(err.Error(), "invalid view") {
		t.Fatalf("err = %v, want invalid view", err)
	}
}

func TestLoginRequiresPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SV_STAFF_PASSWORD", "")

	if _, err := executeCommand("login"); err == nil {
		t.Fatal("expected error with empty password")
	}
}
