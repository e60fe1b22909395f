package buildpipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pasclang/internal/driver"
	runtimeembed "pasclang/runtime"
)

// Build compiles the input and produces the requested artefact: an
// executable by default, an object file with EmitObjectOnly, or native
// assembly with EmitAssembly.
func Build(ctx context.Context, req *Request) (Result, error) {
	result, err := Compile(ctx, req)
	if err != nil {
		return result, err
	}

	if req.DumpIR {
		fmt.Fprint(os.Stderr, result.IR)
	}

	if err := ensureClangAvailable(); err != nil {
		failure := driver.Fail(driver.GeneratorError, err.Error())
		emitStage(req.Progress, req.InputPath, StageBuild, StatusError, failure, 0)
		return result, failure
	}

	tmpDir, err := os.MkdirTemp("", "pasclang-*")
	if err != nil {
		return result, driver.Fail(driver.GeneratorError, "failed to create tmp dir: "+err.Error())
	}
	result.TmpDir = tmpDir
	if !req.KeepTmp {
		defer func() {
			_ = os.RemoveAll(tmpDir)
		}()
	}

	llPath := filepath.Join(tmpDir, "out.ll")
	if err := os.WriteFile(llPath, []byte(result.IR), 0o600); err != nil {
		failure := driver.Fail(driver.GeneratorError, "failed to write IR: "+err.Error())
		emitStage(req.Progress, req.InputPath, StageBuild, StatusError, failure, 0)
		return result, failure
	}

	optFlag := fmt.Sprintf("-O%d", req.OptLevel)

	buildStart := time.Now()
	emitStage(req.Progress, req.InputPath, StageBuild, StatusWorking, nil, 0)

	switch {
	case req.EmitAssembly:
		err = runCommand(req.PrintCommands, "clang", "-S", "-x", "ir", optFlag, llPath, "-o", req.OutputPath)
	case req.EmitObjectOnly:
		err = runCommand(req.PrintCommands, "clang", "-c", "-x", "ir", optFlag, llPath, "-o", req.OutputPath)
	default:
		objPath := filepath.Join(tmpDir, "out.o")
		err = runCommand(req.PrintCommands, "clang", "-c", "-x", "ir", optFlag, llPath, "-o", objPath)
	}
	if err != nil {
		failure := driver.Fail(driver.GeneratorError, err.Error())
		emitStage(req.Progress, req.InputPath, StageBuild, StatusError, failure, 0)
		return result, failure
	}
	result.Timings.Set(StageBuild, time.Since(buildStart))
	emitStage(req.Progress, req.InputPath, StageBuild, StatusDone, nil, result.Timings.Duration(StageBuild))

	if req.EmitAssembly || req.EmitObjectOnly {
		result.OutputPath = req.OutputPath
		return result, nil
	}

	linkStart := time.Now()
	emitStage(req.Progress, req.InputPath, StageLink, StatusWorking, nil, 0)
	if err := linkExecutable(ctx, tmpDir, req); err != nil {
		failure := driver.Fail(driver.GeneratorError, err.Error())
		emitStage(req.Progress, req.InputPath, StageLink, StatusError, failure, 0)
		return result, failure
	}
	result.Timings.Set(StageLink, time.Since(linkStart))
	emitStage(req.Progress, req.InputPath, StageLink, StatusDone, nil, result.Timings.Duration(StageLink))

	result.OutputPath = req.OutputPath
	return result, nil
}

func linkExecutable(ctx context.Context, tmpDir string, req *Request) error {
	runtimeDir, sources, err := extractNativeRuntime(tmpDir)
	if err != nil {
		return err
	}
	objs, err := compileRuntime(ctx, runtimeDir, sources, req.PrintCommands)
	if err != nil {
		return err
	}
	libPath, err := archiveRuntime(runtimeDir, objs, req.PrintCommands)
	if err != nil {
		return err
	}
	objPath := filepath.Join(tmpDir, "out.o")
	return runCommand(req.PrintCommands, "clang", objPath, libPath, "-o", req.OutputPath)
}

func ensureClangAvailable() error {
	if _, err := exec.LookPath("clang"); err != nil {
		return fmt.Errorf("clang not found; install with: sudo apt-get update && sudo apt-get install -y clang llvm")
	}
	return nil
}

func hostTriple() string {
	out, err := exec.Command("clang", "-dumpmachine").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func extractNativeRuntime(tmpDir string) (runtimeDir string, sources []string, err error) {
	runtimeDir = filepath.Join(tmpDir, "native_runtime")
	if err := os.MkdirAll(runtimeDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create native runtime dir: %w", err)
	}

	fsys := runtimeembed.NativeRuntimeFS()
	walkErr := fs.WalkDir(fsys, "native", func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(entryPath, "native/")
		if rel == entryPath {
			return fmt.Errorf("unexpected embedded runtime path: %s", entryPath)
		}
		dst := filepath.Join(runtimeDir, filepath.FromSlash(rel))
		data, err := fs.ReadFile(fsys, entryPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return err
		}
		if strings.HasSuffix(entryPath, ".c") {
			sources = append(sources, dst)
		}
		return nil
	})
	if walkErr != nil {
		return "", nil, fmt.Errorf("failed to extract embedded runtime sources: %w", walkErr)
	}
	if len(sources) == 0 {
		return "", nil, fmt.Errorf("embedded runtime sources missing (build bug)")
	}
	sort.Strings(sources)
	return runtimeDir, sources, nil
}

// compileRuntime builds every runtime translation unit; the units are
// independent, so they compile concurrently.
func compileRuntime(ctx context.Context, runtimeDir string, sources []string, printCommands bool) ([]string, error) {
	objs := make([]string, len(sources))
	group, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		obj := filepath.Join(runtimeDir, base+".o")
		objs[i] = obj
		group.Go(func() error {
			return runCommand(printCommands, "clang", "-c", "-std=c11", src, "-o", obj)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

func archiveRuntime(runtimeDir string, objs []string, printCommands bool) (string, error) {
	if _, err := exec.LookPath("ar"); err != nil {
		return "", fmt.Errorf("ar not found; install binutils")
	}
	libPath := filepath.Join(runtimeDir, "libpasclang-rt.a")
	args := append([]string{"rcs", libPath}, objs...)
	if err := runCommand(printCommands, "ar", args...); err != nil {
		return "", err
	}
	return libPath, nil
}

func runCommand(printCommands bool, name string, args ...string) error {
	if printCommands {
		fmt.Fprintf(os.Stdout, "%s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}
