package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/any-hub/jsbrew/internal/compiler"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// writeAsset creates root/rel with content and pins its mtime.
func writeAsset(t *testing.T, root, rel, content string, mtime time.Time) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	touch(t, full, mtime)
	return full
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes failed: %v", err)
	}
}

// countingCompiler wraps source as compiled(<src>) and counts invocations.
type countingCompiler struct {
	calls atomic.Int32
}

func (c *countingCompiler) Compile(_ context.Context, _ string, source []byte) ([]byte, error) {
	c.calls.Add(1)
	if strings.Contains(string(source), "SYNTAX ERROR") {
		return nil, &compiler.CompileError{File: "x", Messages: []string{"unexpected token"}}
	}
	return []byte("compiled(" + string(source) + ")"), nil
}

func (c *countingCompiler) Name() string {
	return "counting"
}

func (c *countingCompiler) Calls() int {
	return int(c.calls.Load())
}

func isCompileError(err error) bool {
	var compileErr *compiler.CompileError
	return errors.As(err, &compileErr)
}
