package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/loader"
	"github.com/tallyops/advicenorm/normalize"
	"github.com/tallyops/advicenorm/telemetry"
)

type NormalizeCmd struct {
	File   FileOrStdin `help:"Extraction payload (JSON) or settlement workbook (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Group  string      `help:"Vendor group override (marketplace, quickcommerce, distributor). Defaults to the payload's group identifier." short:"g"`
	Sheet  string      `help:"Workbook sheet to load (first sheet if empty)."`
	Output string      `help:"Write JSON results to a file instead of stdout." short:"o" type:"path"`
	JSON   bool        `help:"Emit JSON to stdout instead of a table." short:"j"`
}

func (cmd *NormalizeCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
		defer reportTelemetry()
	}

	ldr := loader.New(loader.WithSheet(cmd.Sheet))

	var extractions []loader.Extraction
	if cmd.File.IsStdin() {
		extractions, err = ldr.LoadBytes(runCtx, cmd.File.Filename, cmd.File.Contents)
	} else {
		extractions, err = ldr.Load(runCtx, cmd.File.GetAbsoluteFilename())
	}
	if err != nil {
		printError(ctx.Stderr, err.Error())
		reportTelemetry()
		os.Exit(1)
	}

	registry := normalize.NewRegistry(normalize.WithDistributorClient(cfg.ClientName))

	var results []*normalize.Result
	for _, extraction := range extractions {
		group := cfg.ResolveGroup(extraction.Group)
		if cmd.Group != "" {
			group = advice.ParseVendorGroup(cmd.Group)
			if group == advice.GroupUnknown {
				return fmt.Errorf("unknown vendor group %q", cmd.Group)
			}
		}

		result, err := normalize.Run(runCtx, registry.Normalizer(group), extraction.Meta, extraction.Rows)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			reportTelemetry()
			os.Exit(1)
		}

		result.Stamp(extraction.AdviceUUID)

		if err := advice.ValidateLines(result.Lines); err != nil {
			printError(ctx.Stderr, fmt.Sprintf("emitted lines failed validation: %v", err))
			reportTelemetry()
			os.Exit(1)
		}

		results = append(results, result)
	}

	if cmd.Output != "" {
		return cmd.writeOutput(ctx, results)
	}

	if cmd.JSON {
		encoder := json.NewEncoder(ctx.Stdout)
		encoder.SetIndent("", "  ")
		for _, result := range results {
			if err := encoder.Encode(result); err != nil {
				return err
			}
		}
		return nil
	}

	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(ctx.Stdout)
		}
		renderResult(ctx.Stdout, result)
	}

	return nil
}

func (cmd *NormalizeCmd) writeOutput(ctx *kong.Context, results []*normalize.Result) error {
	outputFile, err := filepath.Abs(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(outputFile); err == nil {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", outputFile))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("output file already exists: %s", outputFile)
		}
	}

	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	lines := 0
	for _, result := range results {
		lines += len(result.Lines)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %d line(s) to %s", lines, pathStyle.Render(outputFile)))

	return nil
}
