package builtin

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Inventure71/EvolveProject/tool"
)

func init() {
	register("create_structure", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "create_structure",
			Doc: `Generate a directory tree for the given path, similar to the 'tree' command output.

Args:
    path: The root directory path. Empty means the working directory.
    respect_gitignore: Skip top-level entries listed in the root .gitignore.`,
			Params: []tool.Param{
				tool.Optional("path", "str", ""),
				tool.Optional("respect_gitignore", "bool", true),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				return createStructure(cfg.resolve(args.String("path")), args.Bool("respect_gitignore"))
			},
		}
	})

	register("read_directory", func(cfg Config) tool.Definition {
		return tool.Definition{
			Name: "read_directory",
			Doc: `Recursively reads all files in a directory (or a single file), returning their contents.

Args:
    path: The directory or file path to read.
    add_line_numbers: Prefix every line with its 1-indexed line number.`,
			Params: []tool.Param{
				tool.Required("path", "str"),
				tool.Optional("add_line_numbers", "bool", false),
			},
			Func: func(ctx context.Context, args tool.Args) (any, error) {
				return readDirectory(ctx, cfg.resolve(args.String("path")), args.Bool("add_line_numbers"))
			},
		}
	})
}

// Tree connectors.
const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	space      = "    "
)

func createStructure(root string, respectGitignore bool) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}

	ignored := map[string]bool{".git": true}
	if respectGitignore {
		for _, name := range gitignoreEntries(filepath.Join(root, ".gitignore")) {
			ignored[name] = true
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	var lines []string
	if err := walkTree(root, "", ignored, &lines); err != nil {
		return "", err
	}
	return filepath.Base(abs) + "/\n" + strings.Join(lines, "\n"), nil
}

// walkTree appends one line per entry. ignored only applies at the root.
func walkTree(dir, prefix string, ignored map[string]bool, lines *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	isDir := make(map[string]bool, len(entries))
	for _, e := range entries {
		if ignored[e.Name()] {
			continue
		}
		names = append(names, e.Name())
		isDir[e.Name()] = e.IsDir()
	}
	sort.Strings(names)

	for i, name := range names {
		last := i == len(names)-1
		connector, extension := branch, pipe
		if last {
			connector, extension = lastBranch, space
		}
		*lines = append(*lines, prefix+connector+name)
		if isDir[name] {
			if err := walkTree(filepath.Join(dir, name), prefix+extension, nil, lines); err != nil {
				return err
			}
		}
	}
	return nil
}

// gitignoreEntries returns the names listed in a .gitignore, with a
// leading slash removed. Comments and blank lines are skipped.
func gitignoreEntries(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		line = strings.TrimSuffix(line, "/")
		out = append(out, line)
	}
	return out
}

func readDirectory(ctx context.Context, root string, lineNumbers bool) (string, error) {
	var sections []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == ".DS_Store" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := string(data)
		if lineNumbers {
			content = numberLines(content)
		}
		sections = append(sections, fmt.Sprintf("=== %s ===\n%s", path, content))
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.Join(sections, "\n\n"), nil
}

// numberLines prefixes each line with "N: ", starting at 1.
func numberLines(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%d: %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}
