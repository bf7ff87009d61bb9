package toolchain

import (
	"strings"
	"testing"

	"github.com/matzehuels/phylotree/pkg/errors"
)

func TestCheckToolsMissing(t *testing.T) {
	err := CheckTools("definitely-not-a-real-binary-1", "definitely-not-a-real-binary-2")
	if !errors.Is(err, errors.ErrCodeToolNotFound) {
		t.Fatalf("CheckTools = %v, want TOOL_NOT_FOUND", err)
	}
	// Both missing tools are named in one error.
	for _, name := range []string{"definitely-not-a-real-binary-1", "definitely-not-a-real-binary-2"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err.Error(), name)
		}
	}
}

func TestCheckToolsPresent(t *testing.T) {
	// The shell is a safe bet to exist on any test machine.
	if err := CheckTools("sh"); err != nil {
		t.Fatalf("CheckTools(sh) = %v", err)
	}
}
