package reader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Reader resolves fixture sources into fixture records.
// Configuration is fixed at construction and applied to every read.
// A Reader holds no mutable state, so it may be shared between goroutines
// as long as its filesystem provider and observer allow it.
type Reader struct {
	decoder    *textDecoder
	fsProvider filesystem.FileSystemProvider
	observer   dbseed.Observer
	formats    map[string]Format
}

type options struct {
	encoding   string
	fsProvider filesystem.FileSystemProvider
	observer   dbseed.Observer
	formats    map[string]Format
}

// Option configures a Reader.
type Option func(*options)

// WithEncoding sets the text encoding of fixture files. Any WHATWG label is accepted.
func WithEncoding(label string) Option {
	return func(o *options) {
		o.encoding = label
	}
}

// WithFileSystem reads files and expands globs through fsProvider instead of the OS filesystem.
func WithFileSystem(fsProvider filesystem.FileSystemProvider) Option {
	return func(o *options) {
		o.fsProvider = fsProvider
	}
}

// WithObserver notifies obs before and after every file read.
func WithObserver(obs dbseed.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithFormat registers a parser for an extension, replacing any existing one.
// The extension is matched case-insensitively; the leading dot is optional.
func WithFormat(ext string, format Format) Option {
	return func(o *options) {
		o.formats[normalizeExtension(ext)] = format
	}
}

// New creates a Reader. Without options it reads UTF-8 files from the OS
// filesystem and understands .json, .yml, .yaml and .tengo.
func New(opts ...Option) (*Reader, error) {
	o := &options{
		encoding:   dbseed.DefaultEncoding,
		fsProvider: filesystem.NewOSFileSystem(),
		observer:   dbseed.NopObserver{},
		formats:    defaultFormats(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.fsProvider == nil {
		return nil, fmt.Errorf("%w: filesystem provider cannot be nil", dbseed.ErrInvalidArgument)
	}
	if o.observer == nil {
		o.observer = dbseed.NopObserver{}
	}
	for ext, format := range o.formats {
		if ext == "" || format == nil {
			return nil, fmt.Errorf("%w: format registration for %q is incomplete", dbseed.ErrInvalidArgument, ext)
		}
	}

	decoder, err := newTextDecoder(o.encoding)
	if err != nil {
		return nil, err
	}

	return &Reader{
		decoder:    decoder,
		fsProvider: o.fsProvider,
		observer:   o.observer,
		formats:    o.formats,
	}, nil
}

// Encoding returns the canonical name of the configured encoding, e.g. "utf-8" or "windows-1252".
func (r *Reader) Encoding() string {
	return r.decoder.name
}

// Extensions returns the registered file extensions in sorted order.
func (r *Reader) Extensions() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether filename has a registered extension.
func (r *Reader) Supports(filename string) bool {
	_, ok := r.formats[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ReadFile reads and parses exactly one fixture file.
func (r *Reader) ReadFile(filename string) ([]dbseed.Fixture, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename cannot be empty", dbseed.ErrInvalidArgument)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := r.formats[ext]
	if !ok {
		if ext == "" {
			return nil, fmt.Errorf("%w: unknown file type: %s has no extension", dbseed.ErrUnsupportedFormat, filename)
		}
		return nil, fmt.Errorf("%w: unknown file type: %s", dbseed.ErrUnsupportedFormat, ext)
	}

	r.observer.FileReading(filename)

	content, err := r.fsProvider.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", filename, err)
	}

	text, err := r.decoder.decode(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dbseed.ErrParseFailure, filename, err)
	}

	parsed, err := format.Parse(filename, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dbseed.ErrParseFailure, filename, err)
	}

	fixtures, err := toFixtures(unwrapNested(parsed))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dbseed.ErrParseFailure, filename, err)
	}

	r.observer.FileRead(filename, len(fixtures))
	return fixtures, nil
}

// ReadFileGlob reads every file matching pattern, in match order, and
// concatenates their fixtures. A literal filename matches itself.
func (r *Reader) ReadFileGlob(pattern string) ([]dbseed.Fixture, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: glob pattern cannot be empty", dbseed.ErrInvalidArgument)
	}

	matches, err := r.fsProvider.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dbseed.ErrInvalidArgument, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no files matching '%s' found", dbseed.ErrNotFound, pattern)
	}

	var fixtures []dbseed.Fixture
	for _, match := range matches {
		fileFixtures, err := r.ReadFile(match)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fileFixtures...)
	}
	return fixtures, nil
}

// ReadFiles treats every source as a glob pattern and concatenates the
// results in list order. A nil list is rejected; an empty one yields no fixtures.
func (r *Reader) ReadFiles(sources []string) ([]dbseed.Fixture, error) {
	if sources == nil {
		return nil, fmt.Errorf("%w: sources must be a list of filenames or glob patterns", dbseed.ErrInvalidArgument)
	}

	fixtures := []dbseed.Fixture{}
	for _, source := range sources {
		sourceFixtures, err := r.ReadFileGlob(source)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, sourceFixtures...)
	}
	return fixtures, nil
}
