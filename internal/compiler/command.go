package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command 调用外部编译器（例如 `coffee --stdio --print`），源码经 stdin 输入，
// 结果从 stdout 读取。Bare 模式会追加 --bare 参数。
type Command struct {
	path string
	args []string
}

// NewCommand 校验 argv 并构造外部命令编译器。
func NewCommand(argv []string, opts Options) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("compiler command required")
	}
	args := append([]string(nil), argv[1:]...)
	if opts.Bare {
		args = append(args, "--bare")
	}
	return &Command{path: argv[0], args: args}, nil
}

func (c *Command) Name() string {
	return "command:" + c.path
}

func (c *Command) Compile(ctx context.Context, name string, source []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = bytes.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CompileError{File: name, Messages: splitLines(stderr.String()), Err: err}
		}
		return nil, fmt.Errorf("run %s: %w", c.path, err)
	}
	return stdout.Bytes(), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
