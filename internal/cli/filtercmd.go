package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sherlocksearch/holmes/pkg/config"
	"github.com/sherlocksearch/holmes/pkg/filter"
)

func (c *CLI) filterCommand() *cobra.Command {
	var programPath string
	var argsPath string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "compile and evaluate a reference filter program against sample fields",
		Long:  `filter compiles a filter program (spec §4.3) and runs it against a JSON object of field values, printing the terminal accept/reject verdict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			src, err := os.ReadFile(programPath)
			if err != nil {
				return err
			}
			cfg := config.Default()
			prog, err := filter.Compile(string(src), cfg.FilterThresholds())
			if err != nil {
				printError("compile: %v", err)
				return err
			}

			fields := filter.MapBinder{}
			if argsPath != "" {
				raw, err := os.ReadFile(argsPath)
				if err != nil {
					return err
				}
				var asMap map[string]string
				if err := json.Unmarshal(raw, &asMap); err != nil {
					return err
				}
				for k, v := range asMap {
					fields[k] = filter.Str(v)
				}
			}

			fa := filter.NewArgs(prog, fields).WithLogger(logger)
			verdict, err := filter.Run(cmd.Context(), prog, fa)
			if err != nil {
				if verdict.Kind == filter.VerdictMissing {
					logger.Errorf("program terminated without accept or reject: %v", err)
					printWarning("no explicit verdict reached, defaulting to reject per §4.3")
					return err
				}
				printError("runtime error: %v", err)
				return err
			}

			switch verdict.Kind {
			case filter.VerdictAccept:
				printSuccess("accept: %s", verdict.Message)
			case filter.VerdictReject:
				printWarning("reject: %s", verdict.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&programPath, "program", "", "path to a filter program source file (required)")
	cmd.Flags().StringVar(&argsPath, "args", "", "path to a JSON object of field name -> string value")
	cmd.MarkFlagRequired("program")
	return cmd
}
