package doctor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckCommandFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell expected")
	}

	check := checkCommand("shell", "sh -c 'echo hi'")
	if !check.OK {
		t.Errorf("expected sh to resolve, got %+v", check)
	}
	if check.Detail == "" {
		t.Error("expected resolved path in detail")
	}
}

func TestCheckCommandMissing(t *testing.T) {
	check := checkCommand("transcriber", "definitely-not-a-real-binary-12345")
	if check.OK {
		t.Errorf("expected missing binary to fail, got %+v", check)
	}
}

func TestCheckCommandUnparseable(t *testing.T) {
	check := checkCommand("transcriber", "")
	if check.OK {
		t.Errorf("expected empty command to fail, got %+v", check)
	}
}

func TestCheckModelMissing(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	check := checkModel("ggml-medium.bin")
	if check.OK {
		t.Errorf("expected missing model to fail, got %+v", check)
	}
}

func TestCheckModelPresent(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataDir)

	modelsDir := filepath.Join(dataDir, "kiri", "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modelsDir, "ggml-tiny.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	check := checkModel("ggml-tiny.bin")
	if !check.OK {
		t.Errorf("expected model check to pass, got %+v", check)
	}
}

func TestCheckNotesDir(t *testing.T) {
	dir := t.TempDir()

	if check := checkNotesDir(dir); !check.OK {
		t.Errorf("existing dir should pass, got %+v", check)
	}
	if check := checkNotesDir(filepath.Join(dir, "not-yet-created")); !check.OK {
		t.Errorf("missing dir should pass as creatable, got %+v", check)
	}
	if check := checkNotesDir(""); check.OK {
		t.Error("unconfigured dir should fail")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if check := checkNotesDir(file); check.OK {
		t.Error("regular file should fail the directory check")
	}
}

func TestHealthy(t *testing.T) {
	all := []Check{{OK: true}, {OK: true}}
	if !Healthy(all) {
		t.Error("Healthy should be true when all checks pass")
	}

	one := []Check{{OK: true}, {OK: false}}
	if Healthy(one) {
		t.Error("Healthy should be false when any check fails")
	}

	if !Healthy(nil) {
		t.Error("Healthy of no checks should be true")
	}
}
