package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tagandtake/tagandtake-server/internal/errors"
	"github.com/tagandtake/tagandtake-server/internal/lifecycle"
	"github.com/tagandtake/tagandtake-server/internal/logger"
	"github.com/tagandtake/tagandtake-server/internal/sample"
)

func newSampleCommand(root *rootOptions) *cobra.Command {
	var (
		categories []string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate sample listing payloads",
		Long: `Sample writes one payload per lifecycle category, plus an auth file per
role, into --out. Without --out a single payload is printed to stdout.`,
		Example: `  tagview sample --out ./samples
  tagview render --auth-file samples/auth-owner.json samples/recalled.json
  tagview sample --category sold | tagview render`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := parseCategories(categories)
			if err != nil {
				return err
			}
			if outDir == "" && len(selected) != 1 {
				return errors.Validation("printing to stdout needs exactly one --category")
			}

			injector, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer injector.Shutdown()
			log := do.MustInvoke[*logger.Logger](injector)

			gen := sample.New(nil)

			if outDir == "" {
				rec, err := gen.Record(selected[0])
				if err != nil {
					return errors.Wrap(err, errors.CodeInternal, "failed to build sample")
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			written, err := gen.WriteAll(outDir, selected)
			if err != nil {
				return errors.Wrap(err, errors.CodeInternal, "failed to write samples")
			}
			log.Info("Wrote samples", "dir", outDir, "files", len(written))
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Categories to generate (default all)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write sample files into")

	return cmd
}

func parseCategories(names []string) ([]lifecycle.Category, error) {
	if len(names) == 0 {
		return lifecycle.Categories, nil
	}
	out := make([]lifecycle.Category, 0, len(names))
	for _, name := range names {
		c, ok := lifecycle.ParseCategory(name)
		if !ok {
			return nil, errors.Validationf("unknown category %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}
