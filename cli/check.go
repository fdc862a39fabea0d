package cli

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/normalize"
)

type CheckCmd struct {
	File FileOrStdin `help:"Normalized result file to validate (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	data, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	results, err := decodeResults(data)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		os.Exit(1)
	}

	failures := 0
	for _, result := range results {
		err := advice.ValidateLines(result.Lines)
		if err == nil {
			continue
		}

		var validationErrors *advice.ValidationErrors
		if stdErrors.As(err, &validationErrors) {
			for _, verr := range validationErrors.Errors {
				printError(ctx.Stderr, fmt.Sprintf("advice %s: %v", describeResult(result), verr))
				failures++
			}
			continue
		}
		printError(ctx.Stderr, fmt.Sprintf("advice %s: %v", describeResult(result), err))
		failures++
	}

	if failures > 0 {
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", failures))
		os.Exit(1)
	}

	printSuccess(ctx.Stdout, "Check passed")

	return nil
}

// decodeResults accepts either a single result object or an array of them,
// matching both shapes the normalize command emits.
func decodeResults(data []byte) ([]*normalize.Result, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []*normalize.Result
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("invalid result payload: %w", err)
		}
		return results, nil
	}

	var result normalize.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid result payload: %w", err)
	}
	return []*normalize.Result{&result}, nil
}

func describeResult(result *normalize.Result) string {
	if result.AdviceUUID != "" {
		return result.AdviceUUID
	}
	return fmt.Sprintf("(%s)", result.Group)
}
