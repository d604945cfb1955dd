package assembly

import (
	"io"
	"os"
	"strings"

	"github.com/Rana718/knockoff/internal/reader"
	"github.com/Rana718/knockoff/internal/types"
)

// Database is the connection used by the sql reader and sql sink.
type Database interface {
	reader.Querier
	Inserter
}

// Deps are the collaborators the built-in strategies close over. Any of
// them may be nil; strategies that need a missing one fail when used.
type Deps struct {
	Database  Database
	S3        reader.ObjectGetter
	S3Bucket  string
	OutputDir string
	Stdout    io.Writer
}

// DefaultRegistry returns a registry holding every built-in strategy.
func DefaultRegistry(deps Deps) *Registry {
	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	r := NewRegistry()

	r.RegisterPart("inline", loadInline)
	r.RegisterPart("period", loadPeriod)
	r.RegisterPart("io", loadIO)
	r.RegisterPart("faker", loadFaker)
	r.RegisterPart("concat", loadConcat)
	r.RegisterPart("cartesian", loadCartesian)

	r.RegisterPrototype("concat", loadConcat)
	r.RegisterPrototype("cartesian", loadCartesian)
	r.RegisterPrototype("components", loadComponents)
	r.RegisterPrototype("io", loadIO)

	r.RegisterTable("knockoff", loadKnockoff)
	r.RegisterTable("io", loadIO)

	r.RegisterComponent("autoincrement", autoincrementComponent)
	r.RegisterComponent("faker", fakerComponent)
	r.RegisterComponent("choice", choiceComponent)
	r.RegisterComponent("knockoff", resolvedByPrototype)
	r.RegisterComponent("function", resolvedByPrototype)

	r.RegisterSink("noop", func(types.Params) (Sink, error) { return noopSink{}, nil })
	r.RegisterSink("csv", newFileSink(deps.OutputDir, "csv", reader.WriteCSV))
	r.RegisterSink("json", newFileSink(deps.OutputDir, "json", writeJSON))
	r.RegisterSink("stdout", newStdoutSink(stdout))
	r.RegisterSink("sql", newSQLSink(deps.Database))

	r.RegisterReader("inline", reader.Inline)
	r.RegisterReader("csv", reader.File)
	r.RegisterReader("sql", reader.SQL(deps.Database))
	r.RegisterReader("s3_csv", reader.S3CSV(deps.S3, deps.S3Bucket))

	r.RegisterFunction("format", format)
	r.RegisterFunction("join", join)
	r.RegisterFunction("add", arithmetic("add", 0, func(a, b float64) float64 { return a + b }))
	r.RegisterFunction("multiply", arithmetic("multiply", 1, func(a, b float64) float64 { return a * b }))
	r.RegisterFunction("upper", stringFunc("upper", strings.ToUpper))
	r.RegisterFunction("lower", stringFunc("lower", strings.ToLower))
	r.RegisterFunction("randint", randint)

	return r
}
