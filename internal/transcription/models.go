package transcription

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "ggml-medium.bin"

// IsValidModelExtension checks if the file has a usable model extension.
// Supports .bin (ggml) and .gguf.
func IsValidModelExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".bin" || ext == ".gguf"
}

// ModelsDir returns the directory model files are looked up in:
// $XDG_DATA_HOME/kiri/models, falling back to ~/.local/share.
func ModelsDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "kiri", "models")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "models")
	}
	return filepath.Join(home, ".local", "share", "kiri", "models")
}

// ModelPath resolves a model name to its full path. Names that are
// already paths (contain a separator) are used directly, with a
// leading ~ expanded to the home directory.
func ModelPath(name string) string {
	if name == "" {
		name = DefaultModel
	}
	if strings.HasPrefix(name, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(name, "~"), string(os.PathSeparator)))
		}
		return name
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(ModelsDir(), name)
}

// CheckModel verifies a model file exists and looks like a model.
func CheckModel(name string) error {
	path := ModelPath(name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("model not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("check model: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("model path is a directory: %s", path)
	}
	if !IsValidModelExtension(path) {
		return fmt.Errorf("model file must have .bin or .gguf extension: %s", path)
	}
	return nil
}

// ListModels lists model files in the models directory.
func ListModels() []string {
	entries, err := os.ReadDir(ModelsDir())
	if err != nil {
		return nil
	}
	var models []string
	for _, e := range entries {
		if !e.IsDir() && IsValidModelExtension(e.Name()) {
			models = append(models, e.Name())
		}
	}
	sort.Strings(models)
	return models
}
