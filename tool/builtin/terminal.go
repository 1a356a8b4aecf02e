package builtin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Inventure71/EvolveProject/tool"
	"github.com/gofrs/flock"
)

func init() {
	register("run_shell_command", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "run_shell_command",
			Doc: `Runs a shell command on the system, optionally with sudo as another user.

Args:
    command: The shell command to execute.
    use_sudo: Whether to run the command with sudo.
    sudo_password: The sudo password to use when use_sudo is true.
    sudo_user: The user to run the command as with sudo.`,
			Params: []tool.Param{
				tool.Required("command", "str"),
				tool.Optional("use_sudo", "bool", false),
				tool.Optional("sudo_password", "str", ""),
				tool.Optional("sudo_user", "str", "root"),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				return runShellCommand(ctx, cfg, shellRequest{
					Command:  args.String("command"),
					UseSudo:  args.Bool("use_sudo"),
					Password: args.String("sudo_password"),
					User:     args.String("sudo_user"),
				})
			},
		}
	})

	register("read_terminal_output", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "read_terminal_output",
			Doc: `Reads the last N lines of the terminal output log.

Args:
    last_n_lines: The number of lines to read from the end of the log.`,
			Params: []tool.Param{
				tool.Optional("last_n_lines", "int", 20),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				n, err := args.Int("last_n_lines")
				if err != nil {
					return nil, err
				}
				return readTerminalOutput(cfg.TerminalLog, n)
			},
		}
	})
}

type shellRequest struct {
	Command  string
	UseSudo  bool
	Password string
	User     string
}

func runShellCommand(ctx context.Context, cfg Config, req shellRequest) (string, error) {
	shell, err := cfg.shellPath()
	if err != nil {
		return "", err
	}

	var cmd *exec.Cmd
	if req.UseSudo {
		if req.Password == "" {
			return "", errors.New("sudo_password is required when use_sudo is true")
		}
		user := req.User
		if user == "" {
			user = "root"
		}
		cmd = exec.CommandContext(ctx, "sudo", "-S", "-u", user, shell, "-c", req.Command)
		cmd.Stdin = strings.NewReader(req.Password + "\n")
	} else {
		cmd = exec.CommandContext(ctx, shell, "-c", req.Command)
	}
	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	// A non-zero exit is reported through the output, not as a failure.
	runErr := cmd.Run()
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return "", runErr
	}

	output := out.String()
	if err := appendShellLog(cfg.TerminalLog, req.Command, output); err != nil {
		return "", fmt.Errorf("write terminal log: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// appendShellLog records a command and its output. A sibling lock file
// serializes writers across processes.
func appendShellLog(path, command, output string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "$ %s\n%s\n", command, output)
	return err
}

func readTerminalOutput(path string, n int) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "No terminal output log found.", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	if n <= 0 {
		return "", nil
	}

	ring := make([]string, 0, min(n, 1024))
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(ring, "\n")), nil
}
