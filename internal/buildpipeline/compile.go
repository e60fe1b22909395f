// Package buildpipeline orchestrates the compilation of one source file
// into IR, an object file, an assembly file, or a linked executable.
package buildpipeline

import (
	"context"
	"time"

	"pasclang/internal/backend/llvm"
	"pasclang/internal/diag"
	"pasclang/internal/driver"
	"pasclang/internal/sema"
)

// Request configures a compilation.
type Request struct {
	InputPath      string
	OutputPath     string
	OptLevel       int // effective level: 0 or 1
	EmitAssembly   bool
	EmitObjectOnly bool
	DumpIR         bool
	MaxDiagnostics int
	KeepTmp        bool
	PrintCommands  bool
	Progress       ProgressSink
}

// Result captures the artefacts of a compilation.
type Result struct {
	Frontend   *driver.ParseResult
	IR         string
	OutputPath string
	TmpDir     string
	Timings    Timings
}

// NormalizeOptLevel clamps the requested optimization level to the two
// meaningful ones. The second result reports whether clamping happened.
func NormalizeOptLevel(level int) (int, bool) {
	if level > 1 {
		return 1, true
	}
	if level < 0 {
		return 0, true
	}
	return level, false
}

// Compile runs the front end and lowers the program to IR. The caller
// renders diagnostics from Result.Frontend.Bag regardless of the outcome.
func Compile(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}

	parseStart := time.Now()
	emitStage(req.Progress, req.InputPath, StageParse, StatusWorking, nil, 0)
	parsed, err := driver.Parse(req.InputPath, req.MaxDiagnostics)
	result.Frontend = parsed
	result.Timings.Set(StageParse, time.Since(parseStart))
	if err != nil {
		emitStage(req.Progress, req.InputPath, StageParse, StatusError, err, 0)
		return result, err
	}
	emitStage(req.Progress, req.InputPath, StageParse, StatusDone, nil, result.Timings.Duration(StageParse))

	checkStart := time.Now()
	emitStage(req.Progress, req.InputPath, StageCheck, StatusWorking, nil, 0)
	checked := sema.Check(parsed.Program, sema.Options{
		Reporter: diag.BagReporter{Bag: parsed.Bag},
	})
	result.Timings.Set(StageCheck, time.Since(checkStart))
	if checked.HadErrors {
		err = driver.Fail(driver.TypeError, "type errors in "+req.InputPath)
		emitStage(req.Progress, req.InputPath, StageCheck, StatusError, err, 0)
		return result, err
	}
	emitStage(req.Progress, req.InputPath, StageCheck, StatusDone, nil, result.Timings.Duration(StageCheck))

	emitStart := time.Now()
	emitStage(req.Progress, req.InputPath, StageEmit, StatusWorking, nil, 0)
	ir, err := llvm.EmitModule(parsed.Program, llvm.Options{
		ModuleName: req.InputPath,
		Triple:     hostTriple(),
	})
	result.Timings.Set(StageEmit, time.Since(emitStart))
	if err != nil {
		failure := driver.Fail(driver.GeneratorError, "backend refused the module: "+err.Error())
		emitStage(req.Progress, req.InputPath, StageEmit, StatusError, failure, 0)
		return result, failure
	}
	result.IR = ir
	emitStage(req.Progress, req.InputPath, StageEmit, StatusDone, nil, result.Timings.Duration(StageEmit))

	return result, ctx.Err()
}
