package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/env-damage-dashboard/internal/adapter/csvsource"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for schema and content problems",
		Long: `Load the dataset with the same parser the dashboard uses, then report
rows outside the survey years, duplicate country/year rows, and rows with
every metric missing. Exits non-zero when any problem is found.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, rootOpts)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions) error {
	out := cmd.OutOrStdout()
	logger := rootOpts.logger(cmd.ErrOrStderr())

	ds, err := csvsource.NewSource(rootOpts.DataPath, logger).Load(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "FAIL  %s\n", rootOpts.DataPath)
		return err
	}

	fmt.Fprintf(out, "%d rows, %d countries, years %v\n", ds.Len(), len(ds.Countries()), ds.Years())

	issues := csvsource.Validate(ds)
	for _, issue := range issues {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	if len(issues) > 0 {
		fmt.Fprintf(out, "FAIL  %s\n", rootOpts.DataPath)
		return fmt.Errorf("%d issue(s) found in %s", len(issues), rootOpts.DataPath)
	}

	fmt.Fprintf(out, "PASS  %s\n", rootOpts.DataPath)
	return nil
}
