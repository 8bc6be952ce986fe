package main

import (
	"fmt"

	"github.com/spf13/cobra"

	wz "github.com/futig/cbam-wizard/internal/wizard"
)

type resolveResult struct {
	Step      int      `json:"step"`
	Category  string   `json:"category"`
	StepCodes []string `json:"stepCodes"`
}

func newResolveCmd(opts *options) *cobra.Command {
	var (
		category    string
		productType string
		pathname    string
		dataQuality string
	)

	cmd := &cobra.Command{
		Use:   "resolve STEP",
		Short: "Resolve the backend step codes of a wizard position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var step int
			if _, err := fmt.Sscanf(args[0], "%d", &step); err != nil || step < 1 {
				return fmt.Errorf("invalid step %q", args[0])
			}

			codes := wz.ResolveStepCode(step, category, productType, pathname, dataQuality)
			if codes == nil {
				codes = wz.StepCodes{}
			}
			return write(cmd.OutOrStdout(), opts.output, resolveResult{
				Step:      step,
				Category:  category,
				StepCodes: codes,
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", wz.Aluminium, "product category")
	cmd.Flags().StringVar(&productType, "product-type", wz.ProductTypeUnwrought, "product type value")
	cmd.Flags().StringVar(&pathname, "path", "", "current URL path")
	cmd.Flags().StringVar(&dataQuality, "data-quality", "", "data quality level value")
	return cmd
}

type parseResult struct {
	Path      string      `json:"path"`
	Canonical string      `json:"canonical"`
	StepCodes []string    `json:"stepCodes"`
	State     wz.Snapshot `json:"state"`
}

func newParseCmd(opts *options) *cobra.Command {
	var productName string

	cmd := &cobra.Command{
		Use:   "parse PATH",
		Short: "Show the wizard state a URL path deep-links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			router := wz.NewRouter(opts.basePath, opts.categories)

			st, err := router.ParsePath(args[0], productName)
			if err != nil {
				return err
			}

			codes := router.StepCodes(st)
			if codes == nil {
				codes = wz.StepCodes{}
			}
			return write(cmd.OutOrStdout(), opts.output, parseResult{
				Path:      args[0],
				Canonical: router.Path(st),
				StepCodes: codes,
				State:     wz.TakeSnapshot(st),
			})
		},
	}

	cmd.Flags().StringVar(&productName, "product-name", "", "product name stored with the state")
	return cmd
}

type translation struct {
	Question string `json:"question"`
	Value    string `json:"value"`
	Code     string `json:"code"`
}

type optionTable struct {
	Question string   `json:"question"`
	Codes    []string `json:"codes"`
}

func newTranslateCmd(opts *options) *cobra.Command {
	var toCode bool

	cmd := &cobra.Command{
		Use:   "translate [QUESTION_CODE VALUE]",
		Short: "Translate between option codes and wizard values",
		Long: `Without arguments lists the declared option tables.
With a question code and an option code prints the wizard value; with --to-code
the second argument is a wizard value and the option code is printed.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or QUESTION_CODE VALUE, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tables := make([]optionTable, 0)
				for _, q := range wz.TranslatedQuestions() {
					tables = append(tables, optionTable{Question: q, Codes: wz.OptionCodes(q)})
				}
				return write(cmd.OutOrStdout(), opts.output, tables)
			}

			t := translation{Question: args[0]}
			if toCode {
				t.Value = args[1]
				t.Code = wz.StateToCode(args[0], args[1])
			} else {
				t.Code = args[1]
				t.Value = wz.CodeToState(args[0], args[1])
			}
			return write(cmd.OutOrStdout(), opts.output, t)
		},
	}

	cmd.Flags().BoolVar(&toCode, "to-code", false, "translate a wizard value into an option code")
	return cmd
}
