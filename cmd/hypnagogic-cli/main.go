// hypnagogic-cli is a CLI utility for cutting and reconstructing
// bitmask tile-corner icon atlases.
package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/hypnagogic-go/atlascutter/internal/config"
	"github.com/hypnagogic-go/atlascutter/internal/logger"
	"github.com/hypnagogic-go/atlascutter/pkg/bitmask"
	"github.com/hypnagogic-go/atlascutter/pkg/dmi"
	"github.com/hypnagogic-go/atlascutter/pkg/templates"
)

func main() {
	config.ParseFlags()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	resolver, err := templates.NewFileResolver(cfg.Templates.Dir, logger.Log)
	if err != nil && err != templates.ErrNoTemplateDir {
		logger.Fatal("failed to construct template resolver", zap.Error(err))
	}

	roots := positionalArgs()
	if len(roots) == 0 {
		printUsage()
		os.Exit(1)
	}

	var tasks []fileTask
	for _, root := range roots {
		found, err := walkForConfigs(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error walking %s: %v\n", root, err)
			os.Exit(1)
		}
		tasks = append(tasks, found...)
	}

	if len(tasks) == 0 {
		logger.Warn("no .toml configuration files found", zap.Strings("roots", roots))
		return
	}

	failed := runTasks(tasks, cfg, resolver)
	if failed > 0 {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hypnagogic-cli - bitmask tile-corner atlas compiler

Usage:
  hypnagogic-cli [flags] <path> [<path> ...]

Each <path> is walked for ".toml" configuration files; each one is paired
with its sibling input (the same path with the trailing ".toml" stripped)
and run through the Slice or Reconstruct operation its configuration
names.

Flags:
  -config string     Path to config file
  -templates string  Template directory
  -output string     Output root directory (mirrors inputs beneath it)
  -flat              Write outputs flat into the output root
  -workers int       Files processed concurrently (0 = GOMAXPROCS)
  -log-level string  Log level (debug, info, warn, error)
  -log-file string   Log file path`)
}

func positionalArgs() []string {
	var out []string
	for _, a := range os.Args[1:] {
		if strings.HasPrefix(a, "-") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// fileTask pairs a discovered configuration file with the root it was
// found under, so output mirroring can reconstruct the right relative
// path beneath an output root.
type fileTask struct {
	root string
	path string
}

func walkForConfigs(root string) ([]fileTask, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(root, ".toml") {
			return []fileTask{{root: filepath.Dir(root), path: root}}, nil
		}
		return nil, nil
	}

	var tasks []fileTask
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		tasks = append(tasks, fileTask{root: root, path: path})
		return nil
	})
	return tasks, err
}

// rawConfig is the generic shape every configuration file's top level
// carries before being decoded into a concrete operation type.
type rawConfig struct {
	Template string `toml:"template"`
	Type     string `toml:"config_type"`
	Debug    bool   `toml:"debug"`
}

const (
	typeSlice       = "bitmask_slice"
	typeDirVis      = "bitmask_dir_vis"
	typeReconstruct = "bitmask_reconstruct"
)

// loadOperation reads path's TOML, optionally expands it through an
// inherited template, and decodes the merged tree into the concrete
// IconOperationConfig its "config_type" key names.
func loadOperation(path string, resolver *templates.FileResolver) (bitmask.IconOperationConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}

	if raw.Template != "" {
		if resolver == nil {
			return nil, false, fmt.Errorf("%s: names template %q but no template directory is configured", path, raw.Template)
		}
		base, err := resolver.ResolveInherited(raw.Template)
		if err != nil {
			return nil, false, fmt.Errorf("resolving template for %s: %w", path, err)
		}
		tree = mergeOver(base, tree)
	}

	merged, err := toml.Marshal(tree)
	if err != nil {
		return nil, false, fmt.Errorf("re-marshaling merged config for %s: %w", path, err)
	}

	var op bitmask.IconOperationConfig
	switch raw.Type {
	case typeSlice, "":
		cfg := &bitmask.BitmaskSlice{}
		if err := toml.Unmarshal(merged, cfg); err != nil {
			return nil, false, fmt.Errorf("decoding slice config %s: %w", path, err)
		}
		op = cfg
	case typeDirVis:
		cfg := &bitmask.BitmaskDirectionalVis{}
		if err := toml.Unmarshal(merged, cfg); err != nil {
			return nil, false, fmt.Errorf("decoding directional-visibility config %s: %w", path, err)
		}
		op = cfg
	case typeReconstruct:
		cfg := &bitmask.BitmaskSliceReconstruct{}
		if err := toml.Unmarshal(merged, cfg); err != nil {
			return nil, false, fmt.Errorf("decoding reconstruct config %s: %w", path, err)
		}
		op = cfg
	default:
		return nil, false, fmt.Errorf("%s: unknown config_type %q", path, raw.Type)
	}

	if err := op.VerifyConfig(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return op, raw.Debug, nil
}

// mergeOver merges override on top of base, recursing into nested tables
// at every depth, the same way templates.FileResolver merges inheritance;
// kept local so the CLI does not reach into the resolver's unexported
// helper.
func mergeOver(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if baseSub, ok := out[k].(map[string]any); ok {
			if overrideSub, ok := v.(map[string]any); ok {
				out[k] = mergeOver(baseSub, overrideSub)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// decodeInput reads the sibling input file (the .toml path with its
// trailing extension stripped) and wraps it as the InputIcon shape its
// extension implies: ".dmi" decodes through pkg/dmi, everything else
// through the standard image package.
func decodeInput(tomlPath string) (bitmask.InputIcon, string, error) {
	siblingPath := strings.TrimSuffix(tomlPath, ".toml")
	f, err := os.Open(siblingPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening sibling input %s: %w", siblingPath, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(siblingPath), ".dmi") {
		icon, err := dmi.Decode(f)
		if err != nil {
			return nil, "", fmt.Errorf("decoding %s: %w", siblingPath, err)
		}
		return bitmask.DecodedIcon{Icon: icon}, siblingPath, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", siblingPath, err)
	}
	return bitmask.RawImage{Image: img}, siblingPath, nil
}

// runTasks dispatches every task across a bounded worker pool and returns
// the number of tasks that failed.
func runTasks(tasks []fileTask, cfg *config.Config, resolver *templates.FileResolver) int {
	workers := cfg.Workers.Count
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan fileTask, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				if err := runOne(t, cfg, resolver); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					reportError(t.path, err)
				}
			}
		}()
	}
	wg.Wait()
	return failed
}

func reportError(path string, err error) {
	fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", path, err)
	for _, e := range explainChain(err) {
		for _, line := range e {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
}

type explainer interface {
	Explain() []string
}

func explainChain(err error) [][]string {
	if ex, ok := err.(explainer); ok {
		return [][]string{ex.Explain()}
	}
	return nil
}

func runOne(t fileTask, cfg *config.Config, resolver *templates.FileResolver) error {
	op, debug, err := loadOperation(t.path, resolver)
	if err != nil {
		return err
	}

	input, siblingPath, err := decodeInput(t.path)
	if err != nil {
		return err
	}

	var payload bitmask.ProcessorPayload
	if slice, ok := op.(*bitmask.BitmaskSlice); ok && debug {
		payload, err = slice.PerformDebugOperation(input)
	} else {
		payload, err = op.PerformOperation(input)
	}
	if err != nil {
		return err
	}

	outDir := outputDir(t, cfg)
	base := strings.TrimSuffix(filepath.Base(siblingPath), filepath.Ext(siblingPath))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	written, err := writePayload(payload, outDir, base)
	if err != nil {
		return err
	}
	logger.Info("processed", zap.String("config", t.path), zap.Strings("outputs", written))
	return nil
}

// outputDir resolves where a task's outputs should land: adjacent to the
// input by default, or mirrored beneath cfg.Output.Root (flattened if
// cfg.Output.Flat is set).
func outputDir(t fileTask, cfg *config.Config) string {
	inputDir := filepath.Dir(t.path)
	if cfg.Output.Root == "" {
		return inputDir
	}
	if cfg.Output.Flat {
		return cfg.Output.Root
	}
	rel, err := filepath.Rel(t.root, inputDir)
	if err != nil || rel == "." {
		return cfg.Output.Root
	}
	return filepath.Join(cfg.Output.Root, rel)
}

func writePayload(payload bitmask.ProcessorPayload, outDir, base string) ([]string, error) {
	switch p := payload.(type) {
	case bitmask.SinglePayload:
		path, err := writeOutputImage(p.Image, outDir, base)
		return []string{path}, err
	case bitmask.SingleNamedPayload:
		path, err := writeNamedIcon(p.Icon, outDir, base)
		return []string{path}, err
	case bitmask.MultipleNamedPayload:
		var out []string
		for _, n := range p.Icons {
			path, err := writeNamedIcon(n, outDir, base)
			if err != nil {
				return out, err
			}
			out = append(out, path)
		}
		return out, nil
	case bitmask.ConfigWrappedPayload:
		inner, err := writePayload(p.Payload, outDir, base)
		if err != nil {
			return inner, err
		}
		textPath, err := writeOutputText(p.Text, outDir, base)
		if err != nil {
			return inner, err
		}
		return append(inner, textPath), nil
	default:
		return nil, fmt.Errorf("unhandled payload type %T", payload)
	}
}

func writeNamedIcon(n bitmask.NamedIcon, outDir, base string) (string, error) {
	name := base
	if n.Name != "" {
		name = base + "-" + n.Name
	}
	return writeOutputImage(n.Image, outDir, name)
}

func writeOutputImage(out bitmask.OutputImage, outDir, name string) (string, error) {
	switch img := out.(type) {
	case bitmask.DMIImage:
		path := filepath.Join(outDir, name+".dmi")
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := dmi.Encode(img.Icon, f); err != nil {
			return "", fmt.Errorf("encoding %s: %w", path, err)
		}
		return path, nil
	case bitmask.PNGImage:
		path := filepath.Join(outDir, name+".png")
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := encodePNG(f, img.Image); err != nil {
			return "", fmt.Errorf("encoding %s: %w", path, err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("unhandled output image type %T", out)
	}
}

func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func writeOutputText(out bitmask.OutputText, outDir, base string) (string, error) {
	var text, suffix string
	switch t := out.(type) {
	case bitmask.PNGConfig:
		text, suffix = t.Text, ".png.toml"
	case bitmask.DMIConfig:
		text, suffix = t.Text, ".dmi.toml"
	default:
		return "", fmt.Errorf("unhandled output text type %T", out)
	}
	path := filepath.Join(outDir, base+suffix)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
