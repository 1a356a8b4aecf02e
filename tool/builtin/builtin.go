// Package builtin provides the tools every agent starts with: arithmetic,
// file creation and editing, directory inspection and shell access.
package builtin

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Inventure71/EvolveProject/tool"
)

// Defaults for Config fields left empty.
const (
	DefaultTerminalLog = "terminal_output.log"
	DefaultDebugDir    = "file_edit_debug"
)

// Config controls where builtin tools read and write.
type Config struct {
	// WorkDir is the base for relative paths. Empty means the process
	// working directory.
	WorkDir string
	// TerminalLog is the append-only log of shell commands and output.
	TerminalLog string
	// DebugDir receives before and after copies of edited files.
	DebugDir string
	// Shell runs shell commands. Empty selects bash, falling back to sh.
	Shell string
}

func (c Config) withDefaults() Config {
	if c.TerminalLog == "" {
		c.TerminalLog = DefaultTerminalLog
	}
	if c.DebugDir == "" {
		c.DebugDir = DefaultDebugDir
	}
	c.TerminalLog = c.resolve(c.TerminalLog)
	c.DebugDir = c.resolve(c.DebugDir)
	return c
}

// resolve makes path relative to WorkDir unless it is absolute.
func (c Config) resolve(path string) string {
	if path == "" {
		path = "."
	}
	if filepath.IsAbs(path) || c.WorkDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(c.WorkDir, path)
}

// factory builds a definition bound to a configuration.
type factory func(cfg Config) tool.Definition

var (
	factoriesMu sync.Mutex
	factories   = map[string]factory{}
)

// register adds a builtin. It is called from init functions and panics on
// duplicate names.
func register(name string, f factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("builtin: duplicate tool %q", name))
	}
	factories[name] = f
}

// Names returns the builtin tool names, sorted.
func Names() []string {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns a tool source holding every builtin, bound to cfg.
func Catalog(cfg Config) *tool.Catalog {
	cfg = cfg.withDefaults()
	c := tool.NewCatalog("builtin")
	for _, name := range Names() {
		factoriesMu.Lock()
		f := factories[name]
		factoriesMu.Unlock()
		c.MustRegister(f(cfg))
	}
	return c
}

// shellPath picks the configured shell, bash, or sh.
func (c Config) shellPath() (string, error) {
	if c.Shell != "" {
		return c.Shell, nil
	}
	path, err := exec.LookPath("bash")
	if err != nil {
		path, err = exec.LookPath("sh")
		if err != nil {
			return "", fmt.Errorf("shell not found: %w", err)
		}
	}
	return path, nil
}
