package rewrite

import (
	"bytes"
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/payload"
)

// Defaults matching wasm-bindgen's --target web output.
const (
	DefaultLoadName      = "load"
	DefaultInitName      = "init"
	DefaultInitStatement = 2
	DefaultImportName    = "wasmBase64"
	DefaultImportPath    = "./wasm/index.js"
)

const bodyIndent = "    "

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options configures a Rewriter. Start from DefaultOptions.
type Options struct {
	// LoadName is the function whose body is replaced.
	LoadName string
	// InitName is the function losing one statement.
	InitName string
	// ImportName is the local binding of the aggregator's default export.
	ImportName string
	// ImportPath is the module specifier of the aggregator, relative to the binding.
	ImportPath string
	// Compression must match what the payload was encoded with.
	Compression payload.Compression
	// InitStatement is the zero-based index of the init statement to drop.
	InitStatement int
}

// DefaultOptions returns the options for an unmodified wasm-bindgen binding.
func DefaultOptions() Options {
	return Options{
		LoadName:      DefaultLoadName,
		InitName:      DefaultInitName,
		InitStatement: DefaultInitStatement,
		ImportName:    DefaultImportName,
		ImportPath:    DefaultImportPath,
		Compression:   payload.CompressionNone,
	}
}

// Rewriter transforms binding sources. It holds no parser state, so one
// Rewriter may be used from several goroutines.
type Rewriter struct {
	opts Options
}

// New validates opts and returns a Rewriter.
func New(opts Options) (*Rewriter, error) {
	for _, f := range []struct{ field, name string }{
		{"load name", opts.LoadName},
		{"init name", opts.InitName},
		{"import name", opts.ImportName},
	} {
		if !identifierRe.MatchString(f.name) {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(f.name).
				Detail("%s %q is not a JavaScript identifier", f.field, f.name).
				Build()
		}
	}
	if opts.LoadName == opts.InitName {
		return nil, errors.InvalidInput(errors.PhaseConfig, "load and init names must differ")
	}
	if opts.ImportPath == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "import path is empty")
	}
	if opts.InitStatement < 0 {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(opts.InitStatement).
			Detail("init statement index must not be negative").
			Build()
	}
	if _, err := payload.ParseCompression(opts.Compression.String()); err != nil {
		return nil, err
	}
	return &Rewriter{opts: opts}, nil
}

// Options returns the options the Rewriter was built with.
func (r *Rewriter) Options() Options {
	return r.opts
}

type edit struct {
	text       string
	start, end uint32
}

// Rewrite returns src with the load body replaced, the init statement
// dropped and the aggregator import prepended. src is not modified.
func (r *Rewriter) Rewrite(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(errors.PhaseRewrite, err)
	}

	line := r.importLine()
	if stripped, ok := stripImport(src, line); ok {
		Logger().Debug("binding already imports the aggregator, rewriting again")
		src = stripped
	}

	tree, err := parse(ctx, src, "binding source")
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	root := tree.RootNode()

	decls := topLevelFunctions(root, src)

	loadFn, ok := decls[r.opts.LoadName]
	if !ok {
		return nil, r.missing(r.opts.LoadName)
	}
	initFn, ok := decls[r.opts.InitName]
	if !ok {
		return nil, r.missing(r.opts.InitName)
	}
	if topLevelBinds(root, src, r.opts.ImportName) {
		return nil, errors.ShapeMismatch(r.opts.ImportName, nil,
			"binding already declares the import name at top level")
	}

	loadEdit, err := r.replaceLoadBody(ctx, loadFn, src)
	if err != nil {
		return nil, err
	}
	initEdit, err := r.dropInitStatement(initFn)
	if err != nil {
		return nil, err
	}

	out := applyEdits(src, []edit{loadEdit, initEdit})
	out = prependImport(out, line)

	check, err := parse(ctx, out, "rewritten binding")
	if err != nil {
		return nil, err
	}
	defer check.Close()

	Logger().Debug("rewrote binding",
		zap.String("load", r.opts.LoadName),
		zap.String("init", r.opts.InitName),
		zap.Int("in_bytes", len(src)),
		zap.Int("out_bytes", len(out)))
	return out, nil
}

func (r *Rewriter) missing(name string) error {
	return errors.New(errors.PhaseRewrite, errors.KindShapeMismatch).
		Decl(name).
		Detail("expected top-level function declaration %q not found", name).
		Build()
}

func (r *Rewriter) importLine() string {
	return "import " + r.opts.ImportName + " from " + strconv.Quote(r.opts.ImportPath) + ";\n"
}

// replaceLoadBody swaps everything between the braces of load's body for the
// statements of the parsed replacement snippet.
func (r *Rewriter) replaceLoadBody(ctx context.Context, fn *sitter.Node, src []byte) (edit, error) {
	name := r.opts.LoadName

	params := namedChildren(fn.ChildByFieldName("parameters"))
	if len(params) < 2 {
		return edit{}, errors.ShapeMismatch(name, []string{name, "parameters"},
			"expected (module, imports) parameters, found "+strconv.Itoa(len(params)))
	}
	importsName := bindingName(params[1], src)
	if importsName == "" {
		return edit{}, errors.ShapeMismatch(name, []string{name, "parameters", "1"},
			"imports parameter is not a plain identifier")
	}

	snippet, err := loadSnippet(r.opts.Compression, r.opts.ImportName, importsName)
	if err != nil {
		return edit{}, err
	}
	stmts, err := snippetStatements(ctx, snippet)
	if err != nil {
		return edit{}, err
	}

	body := fn.ChildByFieldName("body")
	var b strings.Builder
	b.WriteByte('\n')
	for _, s := range stmts {
		b.WriteString(bodyIndent)
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return edit{start: body.StartByte() + 1, end: body.EndByte() - 1, text: b.String()}, nil
}

// dropInitStatement replaces the configured statement of init's body with ";".
func (r *Rewriter) dropInitStatement(fn *sitter.Node) (edit, error) {
	name := r.opts.InitName
	stmts := namedChildren(fn.ChildByFieldName("body"))
	if len(stmts) <= r.opts.InitStatement {
		return edit{}, errors.New(errors.PhaseRewrite, errors.KindShapeMismatch).
			Decl(name).
			Path(name, "body").
			Value(len(stmts)).
			Detail("expected at least %d statements, found %d", r.opts.InitStatement+1, len(stmts)).
			Build()
	}
	target := stmts[r.opts.InitStatement]
	return edit{start: target.StartByte(), end: target.EndByte(), text: ";"}, nil
}

func parse(ctx context.Context, src []byte, what string) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.ParseFailed(what, err)
	}
	if root := tree.RootNode(); root.HasError() {
		detail := what + " has syntax errors"
		if n := firstError(root); n != nil {
			p := n.StartPoint()
			detail += " near line " + strconv.Itoa(int(p.Row)+1) + ", column " + strconv.Itoa(int(p.Column)+1)
		}
		tree.Close()
		return nil, errors.New(errors.PhaseParse, errors.KindParse).Detail(detail).Build()
	}
	return tree, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.HasError() {
			if found := firstError(c); found != nil {
				return found
			}
		}
	}
	return nil
}

// snippetStatements parses a replacement function and returns the source of
// each statement in its body.
func snippetStatements(ctx context.Context, snippet string) ([]string, error) {
	src := []byte(snippet)
	tree, err := parse(ctx, src, "load replacement")
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	for _, fn := range topLevelFunctions(tree.RootNode(), src) {
		var out []string
		for _, s := range namedChildren(fn.ChildByFieldName("body")) {
			out = append(out, s.Content(src))
		}
		return out, nil
	}
	return nil, errors.ParseFailed("load replacement", nil)
}

// topLevelFunctions maps names to the first top-level function declaration
// with that name, looking through export statements.
func topLevelFunctions(root *sitter.Node, src []byte) map[string]*sitter.Node {
	found := make(map[string]*sitter.Node)
	for _, n := range namedChildren(root) {
		if n.Type() == "export_statement" {
			n = n.ChildByFieldName("declaration")
			if n == nil {
				continue
			}
		}
		if n.Type() != "function_declaration" {
			continue
		}
		id := n.ChildByFieldName("name")
		if id == nil {
			continue
		}
		name := id.Content(src)
		if _, dup := found[name]; dup {
			Logger().Warn("duplicate top-level function, using the first",
				zap.String("name", name),
				zap.Uint32("line", n.StartPoint().Row+1))
			continue
		}
		found[name] = n
	}
	return found
}

// topLevelBinds reports whether a top-level function, class, variable or
// import already binds name.
func topLevelBinds(root *sitter.Node, src []byte, name string) bool {
	for _, n := range namedChildren(root) {
		if n.Type() == "export_statement" {
			if d := n.ChildByFieldName("declaration"); d != nil {
				n = d
			}
		}
		switch n.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if id := n.ChildByFieldName("name"); id != nil && id.Content(src) == name {
				return true
			}
		case "lexical_declaration", "variable_declaration":
			for _, d := range namedChildren(n) {
				if d.Type() != "variable_declarator" {
					continue
				}
				if id := d.ChildByFieldName("name"); id != nil && id.Type() == "identifier" && id.Content(src) == name {
					return true
				}
			}
		case "import_statement":
			if importBinds(n, src, name) {
				return true
			}
		}
	}
	return false
}

func importBinds(n *sitter.Node, src []byte, name string) bool {
	if n.Type() == "identifier" && n.Content(src) == name {
		return true
	}
	if n.Type() == "import_specifier" {
		local := n.ChildByFieldName("alias")
		if local == nil {
			local = n.ChildByFieldName("name")
		}
		return local != nil && local.Content(src) == name
	}
	if n.Type() == "string" {
		return false
	}
	for _, c := range namedChildren(n) {
		if importBinds(c, src, name) {
			return true
		}
	}
	return false
}

// bindingName returns the identifier bound by a formal parameter, including
// one with a default value.
func bindingName(param *sitter.Node, src []byte) string {
	switch param.Type() {
	case "identifier":
		return param.Content(src)
	case "assignment_pattern":
		if left := param.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			return left.Content(src)
		}
	}
	return ""
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func applyEdits(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(src))
	var pos uint32
	for _, e := range edits {
		b.Write(src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.Write(src[pos:])
	return []byte(b.String())
}

// splitHashbang separates a leading "#!" line from the rest of src.
func splitHashbang(src []byte) (head, rest []byte) {
	if !bytes.HasPrefix(src, []byte("#!")) {
		return nil, src
	}
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		return src[:i+1], src[i+1:]
	}
	return src, nil
}

// stripImport removes a previously prepended import line so that rewriting
// an already rewritten binding yields the same output again.
func stripImport(src []byte, line string) ([]byte, bool) {
	head, rest := splitHashbang(src)
	if !bytes.HasPrefix(rest, []byte(line)) {
		return src, false
	}
	out := make([]byte, 0, len(src)-len(line))
	out = append(out, head...)
	out = append(out, rest[len(line):]...)
	return out, true
}

func prependImport(src []byte, line string) []byte {
	head, src := splitHashbang(src)
	if len(head) > 0 && head[len(head)-1] != '\n' {
		head = append(append([]byte{}, head...), '\n')
	}
	out := make([]byte, 0, len(head)+len(line)+len(src))
	out = append(out, head...)
	out = append(out, line...)
	out = append(out, src...)
	return out
}
