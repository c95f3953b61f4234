package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/noirbuild/internal/config"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

// hclFile represents the top-level structure of a configuration file for
// decoding. Every attribute is optional; unset ones keep the base value.
type hclFile struct {
	Backend  *string      `hcl:"backend,optional"`
	CacheDir *string      `hcl:"cache_dir,optional"`
	Compiler *hclCompiler `hcl:"compiler,block"`
	Remote   *hclRemote   `hcl:"remote,block"`
	Log      *hclLog      `hcl:"log,block"`
}

type hclCompiler struct {
	Binary          *string `hcl:"binary,optional"`
	ExpectedVersion *string `hcl:"expected_version,optional"`
	Quiet           *bool   `hcl:"quiet,optional"`
}

type hclRemote struct {
	ArchiveURL *string `hcl:"archive_url,optional"`
	Timeout    *string `hcl:"timeout,optional"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	fa  *fsutil.FileAccess
	env map[string]string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a Loader reading through fa. env is exposed to the file
// as the env object.
func NewLoader(fa *fsutil.FileAccess, env map[string]string) *Loader {
	return &Loader{fa: fa, env: env}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string, base *config.Settings) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	data, err := l.fa.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	out := *base
	if err := apply(&out, &parsed, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &out, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	keys := make([]string, 0, len(l.env))
	for k := range l.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		vars[k] = cty.StringVal(l.env[k])
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"lookup":   stdlib.LookupFunc,
			"coalesce": stdlib.CoalesceFunc,
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
		},
	}
}

// apply copies the attributes set in f onto s. A relative cache_dir is taken
// relative to dir, the directory holding the file.
func apply(s *config.Settings, f *hclFile, dir string) error {
	setString(&s.Backend, f.Backend)
	if f.CacheDir != nil {
		s.CacheDir = *f.CacheDir
		if s.CacheDir != "" && !filepath.IsAbs(s.CacheDir) {
			s.CacheDir = filepath.Join(dir, s.CacheDir)
		}
	}

	if c := f.Compiler; c != nil {
		setString(&s.Compiler.Binary, c.Binary)
		setString(&s.Compiler.ExpectedVersion, c.ExpectedVersion)
		if c.Quiet != nil {
			s.Compiler.Quiet = *c.Quiet
		}
	}

	if r := f.Remote; r != nil {
		setString(&s.Remote.ArchiveURL, r.ArchiveURL)
		if r.Timeout != nil {
			d, err := time.ParseDuration(*r.Timeout)
			if err != nil {
				return fmt.Errorf("remote.timeout: %w", err)
			}
			s.Remote.Timeout = d
		}
	}

	if lg := f.Log; lg != nil {
		setString(&s.Log.Level, lg.Level)
		setString(&s.Log.Format, lg.Format)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
