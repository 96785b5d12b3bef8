package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clockstate/internal/program"
)

// AddressResult describes the derived storage account.
type AddressResult struct {
	ProgramID string `json:"program_id"`
	Address   string `json:"address"`
	Bump      uint8  `json:"bump"`
	Variant   string `json:"variant"`
}

func (r AddressResult) String() string {
	return fmt.Sprintf("%s (bump %d, program %s, variant %s)", r.Address, r.Bump, r.ProgramID, r.Variant)
}

// NewAddressCommand creates the address command.
func NewAddressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the derived storage address",
		Long: `Print the storage address derived from the seed "clock" and the
configured program ID, with the bump seed that makes it off-curve.

Example:
  clockctl address
  clockctl address --format json`,
		Args: argsWithExitCode(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			cfg, variant, err := loadConfig(rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err, nil)
			}
			proof := program.DeriveStorageAddress(cfg.ProgramID)
			return f.Success(AddressResult{
				ProgramID: cfg.ProgramID.String(),
				Address:   proof.Address.String(),
				Bump:      proof.Bump,
				Variant:   string(variant),
			})
		},
	}
}
