package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nostrcord/internal/crypto"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a fresh bridge identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := crypto.GenerateSecretKey()
			public, err := crypto.PublicKey(secret)
			if err != nil {
				return err
			}
			nsec, err := crypto.Nsec(secret)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "secret key (hex):  %s\n", secret)
			fmt.Fprintf(out, "secret key (nsec): %s\n", nsec)
			fmt.Fprintf(out, "public key (hex):  %s\n", public)
			fmt.Fprintf(out, "public key (npub): %s\n", crypto.Npub(public))
			return nil
		},
	}
}
