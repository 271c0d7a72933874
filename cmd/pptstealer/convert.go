package main

import (
	"fmt"

	"github.com/starchen4/pptstealer"
	"github.com/starchen4/pptstealer/fs"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	rules := c.Filters.Apply(deps.Config.Filters)
	if err := rules.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pptstealer.ErrorMessage(err))
		return err
	}

	var reporter pptstealer.Reporter
	if !c.Quiet {
		reporter = newProgressBar(deps.Stderr)
	}

	result, err := deps.Converter.Convert(deps.Ctx, c.URL, rules, reporter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pptstealer.ErrorMessage(err))
		return err
	}

	var opts []fs.WriterOption
	if c.Name != "" {
		opts = append(opts, fs.WithFilename(c.Name))
	}
	path, err := fs.NewWriter(c.Output, opts...).WriteResult(deps.Ctx, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pptstealer.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages to %s\n", result.Pages, path)
	return nil
}
