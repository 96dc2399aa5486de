package shard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wippyai/wasm-bundler/errors"
)

// IndexName is the base name of the aggregator module.
const IndexName = "index"

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options controls how text is cut and how the modules are named.
type Options struct {
	// MaxChars bounds each shard, in code points. Zero means DefaultMaxChars.
	MaxChars int
	// Ext is the file extension without the dot. Empty means "js".
	Ext string
	// Prefix names shard files and their import bindings. Empty means "shard".
	Prefix string
}

func (o Options) withDefaults() Options {
	if o.MaxChars == 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.Ext == "" {
		o.Ext = "js"
	}
	if o.Prefix == "" {
		o.Prefix = "shard"
	}
	return o
}

func (o Options) validate() error {
	if strings.HasPrefix(o.Ext, ".") || strings.ContainsAny(o.Ext, `/\`) {
		return errors.New(errors.PhaseShard, errors.KindInvalidInput).
			Value(o.Ext).
			Detail("extension %q must be a bare suffix like \"js\"", o.Ext).
			Build()
	}
	if !identifierRe.MatchString(o.Prefix) {
		return errors.New(errors.PhaseShard, errors.KindInvalidInput).
			Value(o.Prefix).
			Detail("prefix %q is not a JavaScript identifier", o.Prefix).
			Build()
	}
	return nil
}

// File is one generated module.
type File struct {
	Name   string
	Source []byte
	// Chunk is the text carried by a shard. Empty for the aggregator.
	Chunk string
	Index int
}

// Set is the output of Build: the shards in creation order and the aggregator.
type Set struct {
	Shards []File
	Index  File
	Prefix string
	Ext    string
}

// Text returns the concatenated shard chunks, which equals the text given to Build.
func (s *Set) Text() string {
	var b strings.Builder
	for _, f := range s.Shards {
		b.WriteString(f.Chunk)
	}
	return b.String()
}

// Build splits text and renders every module. It touches no files.
func Build(text string, opts Options) (*Set, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	chunks, err := Split(text, opts.MaxChars)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Shards: make([]File, 0, len(chunks)),
		Prefix: opts.Prefix,
		Ext:    opts.Ext,
	}
	for i, chunk := range chunks {
		set.Shards = append(set.Shards, File{
			Index:  i,
			Name:   shardName(opts.Prefix, i, opts.Ext),
			Chunk:  chunk,
			Source: shardModule(chunk),
		})
	}
	set.Index = File{
		Index:  -1,
		Name:   IndexName + "." + opts.Ext,
		Source: aggregatorModule(opts.Prefix, opts.Ext, len(chunks)),
	}
	return set, nil
}

func shardName(prefix string, i int, ext string) string {
	return fmt.Sprintf("%s%d.%s", prefix, i, ext)
}

func shardModule(chunk string) []byte {
	quoted := quoteJS(chunk)
	var b strings.Builder
	b.Grow(len(quoted) + 48)
	b.WriteString("export default function () { return ")
	b.WriteString(quoted)
	b.WriteString("; }\n")
	return []byte(b.String())
}

func aggregatorModule(prefix, ext string, count int) []byte {
	var b strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "import %s%d from %s;\n", prefix, i, quoteJS("./"+shardName(prefix, i, ext)))
	}
	if count > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(`export default ""`)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, " + %s%d()", prefix, i)
	}
	b.WriteString(";\n")
	return []byte(b.String())
}
