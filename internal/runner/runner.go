// Package runner executes generator-authored analysis fragments against
// the session's loaded table inside a yaegi interpreter. The boundary is
// a logical sandbox: the fragment sees exactly the table handle, a JSON
// helper, and the 'answer' result slot, and its faults never propagate
// to the calling pipeline.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/ChamsBouzaiene/insightd/internal/dataset"
)

const (
	noDatasetMsg   = "Error: No dataset loaded. Use get_data_eda first."
	defaultTimeout = 30 * time.Second
)

// allowedImports is the whitelist of stdlib packages a fragment may pull
// in. Filesystem, network, exec and syscall packages are absent.
var allowedImports = map[string]bool{
	"fmt":           true,
	"math":          true,
	"sort":          true,
	"strings":       true,
	"strconv":       true,
	"time":          true,
	"encoding/json": true,
}

// Runner executes analysis fragments against one dataset session.
type Runner struct {
	session *dataset.Session
	timeout time.Duration
}

// New creates a runner bound to the given session.
func New(session *dataset.Session) *Runner {
	return &Runner{
		session: session,
		timeout: defaultTimeout,
	}
}

// Run executes one fragment and returns the serialized result. Faults
// are always returned as textual results, never as errors, so the
// calling pipeline keeps going and the model can retry with corrected
// code.
func (r *Runner) Run(ctx context.Context, code string) string {
	table := r.session.Table()
	if table == nil {
		return noDatasetMsg
	}

	imports, body, err := splitImports(code)
	if err != nil {
		return fmt.Sprintf("Error in code execution: %v", err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	answer, err := evalFragment(ctx, table, imports, body, &stdout)
	if err != nil {
		return fmt.Sprintf("Error in code execution: %v", err)
	}

	return serialize(answer, strings.TrimSpace(stdout.String()))
}

// evalFragment runs the fragment in a fresh interpreter and returns the
// value of the 'answer' slot. Import clauses and statements go to the
// interpreter as separate chunks: yaegi parses a chunk containing an
// import in file mode, where top-level statements are not legal.
// Runtime panics inside the interpreter are recovered and reported as
// errors.
func evalFragment(ctx context.Context, table *dataset.Table, imports []string, body string, stdout *bytes.Buffer) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	i := interp.New(interp.Options{Stdout: stdout, Stderr: stdout})

	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if err := i.Use(interp.Exports{
		"analysis/analysis": {
			"Df":     reflect.ValueOf(table),
			"ToJSON": reflect.ValueOf(toJSON),
			"Row":    reflect.ValueOf((*dataset.Row)(nil)),
			"Table":  reflect.ValueOf((*dataset.Table)(nil)),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to expose analysis bindings: %w", err)
	}

	// Prelude establishes the three bindings the fragment contract
	// names: the table under 'df', the JSON helper, and the initially
	// absent 'answer' slot.
	if _, err := i.EvalWithContext(ctx, `import "analysis"`); err != nil {
		return nil, fmt.Errorf("failed to initialize environment: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, `type Row = analysis.Row`); err != nil {
		return nil, fmt.Errorf("failed to initialize environment: %w", err)
	}
	prelude := `df := analysis.Df
toJSON := analysis.ToJSON
var answer interface{}
_, _, _ = df, toJSON, answer
`
	if _, err := i.EvalWithContext(ctx, prelude); err != nil {
		return nil, fmt.Errorf("failed to initialize environment: %w", err)
	}

	for _, clause := range imports {
		if _, err := i.EvalWithContext(ctx, clause); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(body) != "" {
		if _, err := i.EvalWithContext(ctx, body); err != nil {
			return nil, err
		}
	}

	v, err := i.EvalWithContext(ctx, "answer")
	if err != nil {
		return nil, fmt.Errorf("failed to read answer: %w", err)
	}
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return nil, nil
	}
	return v.Interface(), nil
}

// toJSON is the JSON-encoding capability exposed to fragments.
func toJSON(v any) string {
	return marshalIndent(v)
}

// splitImports parses the fragment's leading import declarations with
// go/parser, enforces the whitelist, and returns the import clauses
// (aliases preserved) separately from the statement body. An import
// appearing after the first statement is left in the body, where the
// interpreter rejects it.
func splitImports(code string) (imports []string, body string, err error) {
	const header = "package fragment\n"
	src := header + code

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "fragment.go", src, parser.ImportsOnly)
	if err != nil {
		return nil, "", fmt.Errorf("invalid import syntax: %v", err)
	}

	end := len(header)
	for _, decl := range f.Decls {
		if off := fset.Position(decl.End()).Offset; off > end {
			end = off
		}
	}

	var forbidden []string
	for _, spec := range f.Imports {
		path, uerr := strconv.Unquote(spec.Path.Value)
		if uerr != nil {
			return nil, "", fmt.Errorf("invalid import path %s", spec.Path.Value)
		}
		if path != "analysis" && !allowedImports[path] {
			forbidden = append(forbidden, path)
			continue
		}
		clause := "import " + spec.Path.Value
		if spec.Name != nil {
			clause = "import " + spec.Name.Name + " " + spec.Path.Value
		}
		imports = append(imports, clause)
	}
	if len(forbidden) > 0 {
		return nil, "", fmt.Errorf("forbidden imports: %v", forbidden)
	}

	return imports, src[end:], nil
}
