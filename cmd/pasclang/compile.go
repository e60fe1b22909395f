package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pasclang/internal/buildpipeline"
	"pasclang/internal/diagfmt"
	"pasclang/internal/driver"
	"pasclang/internal/format"
	"pasclang/internal/source"
)

type compileFlags struct {
	input          string
	output         string
	optLevel       int
	optCapped      bool
	object         bool
	assembly       bool
	pretty         bool
	dumpIR         bool
	frontendOnly   bool
	useCache       bool
	keepTmp        bool
	printCommands  bool
	uiMode         string
	color          bool
	timings        bool
	maxDiagnostics int
}

func compileExecution(cmd *cobra.Command, args []string) error {
	flags, err := readCompileFlags(cmd, args)
	if err != nil {
		return err
	}

	if flags.frontendOnly || flags.pretty {
		return runFrontend(flags)
	}
	return runBuild(cmd, flags)
}

func readCompileFlags(cmd *cobra.Command, args []string) (*compileFlags, error) {
	flags := &compileFlags{}

	if len(args) == 0 {
		_ = cmd.Help()
		return nil, driver.Fail(driver.WrongUsage, "no input file given")
	}
	flags.input = args[0]

	var err error
	if flags.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	optLevel, err := cmd.Flags().GetInt("optimize")
	if err != nil {
		return nil, err
	}
	if flags.object, err = cmd.Flags().GetBool("object"); err != nil {
		return nil, err
	}
	if flags.assembly, err = cmd.Flags().GetBool("assembly"); err != nil {
		return nil, err
	}
	if flags.pretty, err = cmd.Flags().GetBool("pretty"); err != nil {
		return nil, err
	}
	if flags.dumpIR, err = cmd.Flags().GetBool("dump-ir"); err != nil {
		return nil, err
	}
	if flags.frontendOnly, err = cmd.Flags().GetBool("frontend"); err != nil {
		return nil, err
	}
	if flags.useCache, err = cmd.Flags().GetBool("cache"); err != nil {
		return nil, err
	}
	if flags.keepTmp, err = cmd.Flags().GetBool("keep-tmp"); err != nil {
		return nil, err
	}
	if flags.printCommands, err = cmd.Flags().GetBool("print-commands"); err != nil {
		return nil, err
	}
	if flags.uiMode, err = cmd.Flags().GetString("ui"); err != nil {
		return nil, err
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, err
	}
	flags.color = colorEnabled(colorMode, os.Stderr)
	if flags.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return nil, err
	}
	if flags.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return nil, err
	}

	manifest, manifestFound, err := loadProjectManifest(".")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("optimize") && manifestFound && manifest.Config.Build.Opt != nil {
		optLevel = *manifest.Config.Build.Opt
	}
	flags.optLevel, flags.optCapped = buildpipeline.NormalizeOptLevel(optLevel)

	needOutput := !flags.pretty && !flags.frontendOnly
	if flags.output == "" && manifestFound && needOutput {
		flags.output = manifest.Config.Package.Name
	}
	if needOutput && flags.output == "" {
		return nil, driver.Fail(driver.WrongUsage, "no output file given, use -o")
	}
	if flags.output != "" && strings.HasPrefix(flags.output, "-") {
		return nil, driver.Fail(driver.WrongUsage, "invalid output file "+flags.output)
	}
	if flags.object && flags.assembly {
		return nil, driver.Fail(driver.WrongUsage, "-c and -S are mutually exclusive")
	}

	return flags, nil
}

func (flags *compileFlags) noteOptCapped() {
	if flags.optCapped {
		fmt.Fprintf(os.Stderr, "note: only -O0 and -O1 are distinct; falling back to -O%d\n", flags.optLevel)
	}
}

// runFrontend handles -f and -p: analysis only, no output file. With
// --cache the recorded outcome of an unchanged input is replayed instead of
// re-running the front end (pretty-printing always needs the real tree).
func runFrontend(flags *compileFlags) error {
	if flags.useCache && !flags.pretty {
		if done, err := replayCachedFrontend(flags); done {
			return err
		}
	}

	result, err := driver.Frontend(flags.input, flags.maxDiagnostics)
	if result != nil {
		printDiagnostics(result, flags)
		if flags.useCache && !flags.pretty {
			storeCachedFrontend(flags, result, err)
		}
	}
	if err != nil {
		return err
	}

	if flags.pretty {
		fmt.Fprint(os.Stdout, format.Print(result.Program))
	}
	return nil
}

func runBuild(cmd *cobra.Command, flags *compileFlags) error {
	flags.noteOptCapped()

	req := &buildpipeline.Request{
		InputPath:      flags.input,
		OutputPath:     flags.output,
		OptLevel:       flags.optLevel,
		EmitAssembly:   flags.assembly,
		EmitObjectOnly: flags.object,
		DumpIR:         flags.dumpIR,
		MaxDiagnostics: flags.maxDiagnostics,
		KeepTmp:        flags.keepTmp,
		PrintCommands:  flags.printCommands,
	}

	var result buildpipeline.Result
	var err error
	if shouldUseUI(flags.uiMode) {
		result, err = runBuildWithUI(cmd.Context(), "pasclang build", flags.input, req)
	} else {
		result, err = buildpipeline.Build(cmd.Context(), req)
	}

	if result.Frontend != nil {
		printDiagnostics(result.Frontend, flags)
	}
	if flags.keepTmp && result.TmpDir != "" {
		fmt.Fprintf(os.Stdout, "tmp dir: %s\n", result.TmpDir)
	}
	if flags.timings {
		printStageTimings(result.Timings)
	}
	return err
}

func printDiagnostics(result *driver.ParseResult, flags *compileFlags) {
	if result.Bag == nil || result.Bag.Len() == 0 {
		return
	}
	result.Bag.Sort()
	diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
		Color:     flags.color,
		ShowNotes: true,
	})
}

func printStageTimings(timings buildpipeline.Timings) {
	stages := []buildpipeline.Stage{
		buildpipeline.StageParse,
		buildpipeline.StageCheck,
		buildpipeline.StageEmit,
		buildpipeline.StageBuild,
		buildpipeline.StageLink,
	}
	for _, stage := range stages {
		if timings.Has(stage) {
			fmt.Fprintf(os.Stdout, "%8s  %s\n", stage, timings.Duration(stage))
		}
	}
	fmt.Fprintf(os.Stdout, "%8s  %s\n", "total", timings.Total())
}

// replayCachedFrontend renders the recorded diagnostics when the cache has
// an entry for the current content hash. done reports whether the run was
// fully served from cache.
func replayCachedFrontend(flags *compileFlags) (done bool, err error) {
	cache, cacheErr := driver.OpenDiskCache("pasclang")
	if cacheErr != nil {
		return false, nil
	}

	// Load through a FileSet so the hash sees the same CRLF/BOM
	// normalization as a real front-end run.
	fs := source.NewFileSet()
	fileID, loadErr := fs.Load(flags.input)
	if loadErr != nil {
		return false, nil
	}
	file := fs.Get(fileID)
	payload, ok := cache.Load(file.Hash)
	if !ok {
		return false, nil
	}

	bag := driver.UnpackDiags(payload.Diags, fileID, flags.maxDiagnostics)
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     flags.color,
		ShowNotes: true,
	})

	if category := driver.Category(payload.Category); category != driver.Success {
		return true, driver.Fail(category, category.String()+" in "+flags.input+" (cached)")
	}
	return true, nil
}

func storeCachedFrontend(flags *compileFlags, result *driver.ParseResult, runErr error) {
	cache, err := driver.OpenDiskCache("pasclang")
	if err != nil || result.File == nil {
		return
	}
	category := driver.Success
	if runErr != nil {
		category = driver.Category(driver.ExitCode(runErr))
	}
	_ = cache.Store(result.File.Hash, &driver.DiskPayload{
		Path:     result.File.Path,
		Diags:    driver.PackDiags(result.Bag),
		Category: int(category),
	})
}
