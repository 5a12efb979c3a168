// Package templates resolves named configuration templates into parsed
// TOML trees, the abstract lookup §6 requires callers expand a config
// through before handing it to pkg/bitmask. The core never resolves
// templates itself.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrNoTemplateDir is returned when a FileResolver is constructed against
// a directory that does not exist.
var ErrNoTemplateDir = errors.New("templates: template directory not found")

// Resolver is an abstract name -> parsed-configuration-tree lookup.
// Implementations decide how names map to storage; the only standard one
// is FileResolver, reading "<dir>/<name>.toml".
type Resolver interface {
	Resolve(name string) (map[string]any, error)
}

// FileResolver reads templates as TOML files from a directory on disk.
type FileResolver struct {
	dir    string
	logger *zap.Logger
}

// NewFileResolver returns a FileResolver rooted at dir. It errors if dir
// does not exist. Logger may be nil, in which case resolution proceeds
// silently.
func NewFileResolver(dir string, logger *zap.Logger) (*FileResolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, ErrNoTemplateDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileResolver{dir: abs, logger: logger}, nil
}

// Resolve reads "<dir>/<name>.toml" and parses it into a generic tree.
// Templates may themselves be merged into a concrete operation config by
// the caller; FileResolver only does the file lookup and TOML parse.
func (r *FileResolver) Resolve(name string) (map[string]any, error) {
	path := filepath.Join(r.dir, name+".toml")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("templates: failed to find template %q, expected %s: %w", name, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: reading %s: %w", path, err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("templates: parsing %s: %w", path, err)
	}
	r.logger.Debug("resolved template", zap.String("name", name), zap.String("path", path))
	return tree, nil
}

// ResolveInherited resolves name, then recursively resolves and merges in
// any template it names under a "parent" key, child keys taking
// precedence over inherited ones. This is the inclusion resolution §5
// deliberately keeps out of pkg/bitmask: a config may say
// `parent = "base"` to inherit another template's tree before its own
// keys are applied on top.
func (r *FileResolver) ResolveInherited(name string) (map[string]any, error) {
	return r.resolveInherited(name, make(map[string]bool))
}

func (r *FileResolver) resolveInherited(name string, seen map[string]bool) (map[string]any, error) {
	if seen[name] {
		return nil, fmt.Errorf("templates: cycle detected resolving %q", name)
	}
	seen[name] = true

	tree, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	parent, ok := tree["parent"].(string)
	if !ok || parent == "" {
		return tree, nil
	}
	r.logger.Debug("resolving inherited template", zap.String("name", name), zap.String("parent", parent))

	base, err := r.resolveInherited(parent, seen)
	if err != nil {
		return nil, err
	}

	merged := mergeTrees(base, tree)
	delete(merged, "parent")
	return merged, nil
}

// mergeTrees merges override on top of base, recursing into nested tables
// at every depth so per-section keys (e.g. [positions]) combine rather
// than replace wholesale.
func mergeTrees(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if baseSub, ok := out[k].(map[string]any); ok {
			if overrideSub, ok := v.(map[string]any); ok {
				out[k] = mergeTrees(baseSub, overrideSub)
				continue
			}
		}
		out[k] = v
	}
	return out
}
