package gen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func runExampleIntegrationTest(t *testing.T, exampleName string) {
	t.Helper()

	if testing.Short() {
		t.Skip("runs the go command")
	}

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	exampleDir := filepath.Join(repoRoot, "examples", exampleName)
	generated := filepath.Join(exampleDir, "provider_gen.go")

	cmd := exec.CommandContext(t.Context(), "go", "run", "./cmd/provider-generator", "generate",
		"--log-level", "warn",
		"./examples/"+exampleName,
	)
	cmd.Dir = repoRoot

	b, err := cmd.CombinedOutput()
	if err != nil {
		// Best-effort: dump whatever got written for easier debugging.
		for _, p := range []string{generated, filepath.Join(exampleDir, "provider_gen.unformatted.go")} {
			if fb, rerr := os.ReadFile(p); rerr == nil {
				t.Logf("generated file %s:\n%s", p, string(fb))
			}
		}

		t.Fatalf("generate failed: %v\n%s", err, string(b))
	}

	check := exec.CommandContext(t.Context(), "go", "run", "./cmd/provider-generator", "check",
		"--log-level", "warn",
		"./examples/"+exampleName,
	)
	check.Dir = repoRoot

	b, err = check.CombinedOutput()
	if err != nil {
		t.Fatalf("check after generate failed: %v\n%s", err, string(b))
	}

	test := exec.CommandContext(t.Context(), "go", "test", "./examples/"+exampleName, "-count=1")
	test.Dir = repoRoot

	b, err = test.CombinedOutput()
	if err != nil {
		t.Fatalf("example tests failed: %v\n%s", err, string(b))
	}
}
