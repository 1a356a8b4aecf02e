package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// MarkerFile is the package-marker file name that ManifestDir never loads.
const MarkerFile = "index.yaml"

// manifestFile is the on-disk layout of one manifest.
type manifestFile struct {
	Tools []manifestTool `yaml:"tools"`
}

type manifestTool struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Params      []manifestParam `yaml:"params"`
	// Command is split into arguments and each {{param}} placeholder is
	// replaced by the argument value inside its token.
	Command string `yaml:"command"`
	// Dir is the working directory, relative to the manifest file.
	Dir string `yaml:"dir"`
}

type manifestParam struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type"`
	Default yaml.Node `yaml:"default"`
}

// ManifestDir is a Source reading YAML tool manifests from a directory.
// Files are re-read on every reload, so manifests written while the
// process runs become tools on the next Reload.
type ManifestDir struct {
	dir string
}

// NewManifestDir creates a source over dir. A missing directory yields no
// tools.
func NewManifestDir(dir string) *ManifestDir {
	return &ManifestDir{dir: dir}
}

// Name returns the source name.
func (m *ManifestDir) Name() string { return "manifest:" + m.dir }

// Dir returns the scanned directory.
func (m *ManifestDir) Dir() string { return m.dir }

// Definitions loads every *.yaml and *.yml file except MarkerFile, in
// lexical order. A file that fails to parse is skipped and reported in the
// returned error.
func (m *ManifestDir) Definitions(ctx context.Context) ([]Definition, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == MarkerFile {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var defs []Definition
	var errs []error
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		fileDefs, err := loadManifest(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		defs = append(defs, fileDefs...)
	}
	return defs, errors.Join(errs...)
}

func loadManifest(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, err
	}

	defs := make([]Definition, 0, len(mf.Tools))
	for _, mt := range mf.Tools {
		def, err := mt.definition(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", mt.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (mt manifestTool) definition(baseDir string) (Definition, error) {
	if strings.TrimSpace(mt.Command) == "" {
		return Definition{}, errors.New("command is required")
	}
	tokens, err := shlex.Split(mt.Command)
	if err != nil {
		return Definition{}, fmt.Errorf("parse command: %w", err)
	}
	if len(tokens) == 0 {
		return Definition{}, errors.New("command is empty")
	}

	params := make([]Param, 0, len(mt.Params))
	for _, mp := range mt.Params {
		p := Param{Name: mp.Name, Type: mp.Type}
		if !mp.Default.IsZero() {
			var def any
			if err := mp.Default.Decode(&def); err != nil {
				return Definition{}, fmt.Errorf("param %s default: %w", mp.Name, err)
			}
			p.Default = def
			p.HasDefault = true
		}
		params = append(params, p)
	}

	dir := baseDir
	if mt.Dir != "" {
		dir = mt.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
	}

	return Definition{
		Name:   mt.Name,
		Doc:    mt.Description,
		Params: params,
		Func:   commandFunc(tokens, params, dir),
	}, nil
}

// commandFunc builds a body that runs tokens with placeholders expanded.
func commandFunc(tokens []string, params []Param, dir string) Func {
	return func(ctx context.Context, args Args) (any, error) {
		argv := make([]string, len(tokens))
		for i, tok := range tokens {
			for _, p := range params {
				tok = strings.ReplaceAll(tok, "{{"+p.Name+"}}", args.String(p.Name))
			}
			argv[i] = tok
		}

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Dir = dir
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out

		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(out.String()))
		}
		return strings.TrimSpace(out.String()), nil
	}
}
