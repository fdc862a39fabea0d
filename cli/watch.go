package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/config"
	"github.com/tallyops/advicenorm/loader"
	"github.com/tallyops/advicenorm/normalize"
)

type WatchCmd struct {
	Dir    string `help:"Directory to watch for advice files." arg:"" type:"existingdir"`
	Output string `help:"Directory for normalized JSON results (defaults to the watched directory)." short:"o" type:"path"`
	Sheet  string `help:"Workbook sheet to load (first sheet if empty)."`
}

const normalizedSuffix = ".normalized.json"

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	watchDir, err := filepath.Abs(cmd.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	outputDir := watchDir
	if cmd.Output != "" {
		outputDir, err = filepath.Abs(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchDir, err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := normalize.NewRegistry(normalize.WithDistributorClient(cfg.ClientName))
	ldr := loader.New(loader.WithSheet(cmd.Sheet))

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(watchDir))

	// Debounce per file - extraction services and editors often write in
	// multiple steps.
	const debounceDelay = 200 * time.Millisecond
	timers := map[string]*time.Timer{}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-runCtx.Done():
			_, _ = fmt.Fprintln(ctx.Stdout)
			printInfof(ctx.Stdout, "Stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			filename := event.Name
			if !watchable(filename) {
				continue
			}

			if t, ok := timers[filename]; ok {
				t.Stop()
			}
			timers[filename] = time.AfterFunc(debounceDelay, func() {
				cmd.handleFile(runCtx, ctx, cfg, registry, ldr, filename, outputDir)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))
		}
	}
}

// watchable reports whether filename is an advice input we should pick up.
// Our own output files are excluded so normalizing never feeds back into the
// watcher.
func watchable(filename string) bool {
	if strings.HasSuffix(filename, normalizedSuffix) {
		return false
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (cmd *WatchCmd) handleFile(
	runCtx context.Context,
	ctx *kong.Context,
	cfg *config.Config,
	registry *normalize.Registry,
	ldr *loader.Loader,
	filename, outputDir string,
) {
	extractions, err := ldr.Load(runCtx, filename)
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("%s: %v", filepath.Base(filename), err))
		return
	}

	var results []*normalize.Result
	for _, extraction := range extractions {
		group := cfg.ResolveGroup(extraction.Group)

		result, err := normalize.Run(runCtx, registry.Normalizer(group), extraction.Meta, extraction.Rows)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return
		}
		result.Stamp(extraction.AdviceUUID)

		if err := advice.ValidateLines(result.Lines); err != nil {
			printError(ctx.Stderr, fmt.Sprintf("%s: emitted lines failed validation: %v", filepath.Base(filename), err))
			return
		}
		results = append(results, result)
	}

	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	outputFile := filepath.Join(outputDir, base+normalizedSuffix)
	if err := os.WriteFile(outputFile, append(data, '\n'), 0600); err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to write %s: %v", outputFile, err))
		return
	}

	lines := 0
	for _, result := range results {
		lines += len(result.Lines)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("%s: %d line(s) -> %s",
		filepath.Base(filename), lines, pathStyle.Render(outputFile)))
}
