package commands

import (
	"path/filepath"

	"property-service/config"
	"property-service/scripts"

	"github.com/spf13/cobra"
)

var (
	keysForce    bool
	jwksOutput   string
	keysCertsDir string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the access token signing key",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an RSA key pair for access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := keysCertsDir
		if dir == "" {
			dir = filepath.Dir(config.Config.PrivateKeyPath)
		}
		path, err := scripts.GenerateRsaKeys(dir, keysForce)
		if err != nil {
			return err
		}
		config.Config.Logger.Infof("Private key saved to %s", path)
		return nil
	},
}

var keysJwksCmd = &cobra.Command{
	Use:   "jwks",
	Short: "Write the public JWK set to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scripts.WriteJwks(config.Config.PrivateKeyPath, jwksOutput); err != nil {
			return err
		}
		config.Config.Logger.Infof("Successfully wrote JWKS to %s", jwksOutput)
		return nil
	},
}

func init() {
	keysGenerateCmd.Flags().BoolVar(&keysForce, "force", false, "overwrite an existing key")
	keysGenerateCmd.Flags().StringVar(&keysCertsDir, "dir", "", "output directory (default: directory of PRIVATE_KEY_PATH)")
	keysJwksCmd.Flags().StringVar(&jwksOutput, "out", "public/.well-known/jwks.json", "output file")
	keysCmd.AddCommand(keysGenerateCmd)
	keysCmd.AddCommand(keysJwksCmd)
}
