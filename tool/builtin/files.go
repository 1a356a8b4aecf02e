package builtin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Inventure71/EvolveProject/tool"
	"github.com/natefinch/atomic"
)

func init() {
	register("create_file", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "create_file",
			Doc: `Creates a file at the specified path and writes the given content to it.

Args:
    file_path: The path where the file will be created. Parent directories are created if they do not exist.
    content: The content to write into the file.`,
			Params: []tool.Param{
				tool.Required("file_path", "str"),
				tool.Required("content", "str"),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				return createFile(cfg, args.String("file_path"), args.String("content"))
			},
		}
	})

	register("edit_file_lines", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "edit_file_lines",
			Doc: `Edits specific lines in a file, replacing them with new content.

Args:
    file_path: The path to the file to edit.
    start_line: The first line number to replace (1-indexed, inclusive).
    end_line: The last line number to replace (1-indexed, inclusive).
    new_content: The content to insert in place of the specified lines.`,
			Params: []tool.Param{
				tool.Required("file_path", "str"),
				tool.Required("start_line", "int"),
				tool.Required("end_line", "int"),
				tool.Required("new_content", "str"),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				start, err := args.Int("start_line")
				if err != nil {
					return nil, err
				}
				end, err := args.Int("end_line")
				if err != nil {
					return nil, err
				}
				return editFileLines(cfg, args.String("file_path"), start, end, args.String("new_content"))
			},
		}
	})
}

func createFile(cfg Config, path, content string) (string, error) {
	full := cfg.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent directories: %w", err)
	}
	if err := atomic.WriteFile(full, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("File created successfully at %s.", path), nil
}

func editFileLines(cfg Config, path string, start, end int, newContent string) (string, error) {
	full := cfg.resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}

	lines := splitKeepEnds(string(data))
	if start < 1 {
		return "", fmt.Errorf("start_line must be >= 1, got %d", start)
	}
	if start > len(lines)+1 {
		return "", fmt.Errorf("start_line %d is beyond file length (%d lines)", start, len(lines))
	}
	if end < start-1 {
		return "", fmt.Errorf("end_line (%d) must be >= start_line (%d) - 1", end, start)
	}
	if end > len(lines) {
		end = len(lines)
	}

	replacement := splitKeepEnds(newContent)
	if n := len(replacement); n > 0 && !strings.HasSuffix(replacement[n-1], "\n") {
		replacement[n-1] += "\n"
	}

	updated := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	updated = append(updated, lines[:start-1]...)
	updated = append(updated, replacement...)
	updated = append(updated, lines[end:]...)
	out := strings.Join(updated, "")

	if err := saveDebugCopies(cfg.DebugDir, full, data, []byte(out)); err != nil {
		return "", err
	}
	if err := atomic.WriteFile(full, strings.NewReader(out)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("Lines %d-%d in %s successfully edited. Debug files saved.", start, end, path), nil
}

// saveDebugCopies keeps the before and after versions of an edited file.
func saveDebugCopies(dir, path string, before, after []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	base := filepath.Join(dir, filepath.Base(path))
	if err := atomic.WriteFile(base+"_old", bytes.NewReader(before)); err != nil {
		return err
	}
	return atomic.WriteFile(base+"_new", bytes.NewReader(after))
}

// splitKeepEnds splits s into lines, each keeping its trailing newline.
func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
