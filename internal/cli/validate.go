package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rtsim/internal/system"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <system.yaml>",
		Short: "Check a system description without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%s)\n", args[0], sys)
			return nil
		},
	}
}

func loadSystem(path string) (*system.System, error) {
	sys, err := system.Load(path)
	if err != nil {
		return nil, err
	}
	if err := system.Validate(sys); err != nil {
		return nil, fmt.Errorf("invalid system %s:\n%w", path, err)
	}
	logger.Debug("system loaded", "path", path, "system", sys.String())
	return sys, nil
}
