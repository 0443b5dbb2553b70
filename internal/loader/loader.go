package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roach88/statemig/internal/metrics"
	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/wire"
)

// filePattern matches schema file names and captures the priority.
var filePattern = regexp.MustCompile(`^mapping_schema_(\d{4}).*\.(json|ya?ml)$`)

// Options configures a load.
type Options struct {
	// Logger receives per-file progress. Defaults to a discarding logger.
	Logger *slog.Logger

	// Metrics, when set, counts loaded schema files.
	Metrics *metrics.Metrics
}

// Entry is a loaded schema together with where it came from.
type Entry struct {
	Priority int
	Path     string
	Schema   schema.Schema
}

// LoadSchemas loads every schema file in dir, oldest first.
func LoadSchemas(dir string) ([]schema.Schema, error) {
	return LoadWithOptions(dir, Options{})
}

// LoadWithOptions is LoadSchemas with logging and metrics.
func LoadWithOptions(dir string, opts Options) ([]schema.Schema, error) {
	entries, err := LoadEntries(dir, opts)
	if err != nil {
		return nil, err
	}
	return schemasOf(entries), nil
}

// LoadFS loads schema files from dir inside fsys, oldest first.
func LoadFS(fsys fs.FS, dir string, opts Options) ([]schema.Schema, error) {
	entries, err := LoadEntriesFS(fsys, dir, opts)
	if err != nil {
		return nil, err
	}
	return schemasOf(entries), nil
}

// LoadEntries is like LoadWithOptions but keeps each schema's priority and path.
func LoadEntries(dir string, opts Options) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, newError(dir, fmt.Errorf("%w: %v", ErrIO, err))
	}
	if !info.IsDir() {
		return nil, newError(dir, fmt.Errorf("%w: not a directory", ErrIO))
	}

	entries, err := LoadEntriesFS(os.DirFS(dir), ".", opts)
	if err != nil {
		var le *Error
		if errors.As(err, &le) {
			le.Path = filepath.Join(dir, filepath.FromSlash(le.Path))
		}
		return nil, err
	}
	for i := range entries {
		entries[i].Path = filepath.Join(dir, filepath.FromSlash(entries[i].Path))
	}
	return entries, nil
}

// LoadEntriesFS is like LoadFS but keeps each schema's priority and path.
func LoadEntriesFS(fsys fs.FS, dir string, opts Options) ([]Entry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	files, err := scan(fsys, dir, logger)
	if err != nil {
		return nil, err
	}

	v, err := newValidator()
	if err != nil {
		return nil, newError(dir, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		s, err := loadFile(fsys, f.path, v)
		if err != nil {
			return nil, newError(f.path, err)
		}
		logger.Debug("schema loaded",
			"path", f.path,
			"priority", f.priority,
			"max_version", s.MaxVersion().String(),
		)
		opts.Metrics.SchemaLoaded()
		entries = append(entries, Entry{Priority: f.priority, Path: f.path, Schema: s})
	}

	logger.Info("schemas loaded", "dir", dir, "count", len(entries))
	return entries, nil
}

type schemaFile struct {
	priority int
	path     string
}

// scan lists matching files in dir, sorted by priority.
// Subdirectories are not descended into.
func scan(fsys fs.FS, dir string, logger *slog.Logger) ([]schemaFile, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, newError(dir, fmt.Errorf("%w: %v", ErrIO, err))
	}

	byPriority := make(map[int]string)
	var files []schemaFile
	for _, de := range dirEntries {
		name := de.Name()
		m := filePattern.FindStringSubmatch(name)
		if m == nil || de.IsDir() {
			logger.Debug("skipping file", "name", name)
			continue
		}

		// Four decimal digits always fit.
		priority, _ := strconv.Atoi(m[1])
		p := path.Join(dir, name)
		if prev, ok := byPriority[priority]; ok {
			return nil, newError(p, fmt.Errorf("%w: %04d is also used by %s", ErrDuplicatePriority, priority, prev))
		}
		byPriority[priority] = p
		files = append(files, schemaFile{priority: priority, path: p})
	}

	slices.SortFunc(files, func(a, b schemaFile) int { return a.priority - b.priority })
	return files, nil
}

// loadFile reads, parses, validates and converts one schema file.
func loadFile(fsys fs.FS, p string, v *validator) (schema.Schema, error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	doc := raw
	if ext := strings.ToLower(path.Ext(p)); ext == ".yaml" || ext == ".yml" {
		doc, err = yamlToJSON(raw)
		if err != nil {
			return schema.Schema{}, err
		}
	}

	if err := checkObjectRoot(doc); err != nil {
		return schema.Schema{}, err
	}

	if err := v.validate(p, doc); err != nil {
		return schema.Schema{}, err
	}

	var m wire.Model
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return schema.Schema{}, fmt.Errorf("%w: %v", wire.ErrSchemaField, err)
	}

	return wire.ToSchema(m)
}

// checkObjectRoot verifies that doc is well-formed JSON with an object root.
func checkObjectRoot(doc []byte) error {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after root value", ErrMalformedDocument)
	}
	if _, ok := root.(map[string]any); !ok {
		return fmt.Errorf("%w: root must be an object, got %s", ErrMalformedDocument, kindOf(root))
	}
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON so that both formats share
// one validation and decoding path.
func yamlToJSON(raw []byte) ([]byte, error) {
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if _, ok := root.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: root must be a mapping, got %s", ErrMalformedDocument, kindOf(root))
	}

	root, err := keepFloats(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	doc, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// keepFloats replaces every YAML float with a JSON number that still reads
// as a float, so 1.0 is not re-encoded as the integer 1.
func keepFloats(v any) (any, error) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%v is not a JSON number", val)
		}
		lit := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			lit += ".0"
		}
		return json.Number(lit), nil
	case map[string]any:
		for k, elem := range val {
			out, err := keepFloats(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			val[k] = out
		}
	case []any:
		for i, elem := range val {
			out, err := keepFloats(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			val[i] = out
		}
	}
	return v, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}

func schemasOf(entries []Entry) []schema.Schema {
	out := make([]schema.Schema, len(entries))
	for i, e := range entries {
		out[i] = e.Schema
	}
	return out
}
