package main

import (
	"crypto/sha256"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yashbavkar26/agri-backend/cmd/flags"
	"github.com/yashbavkar26/agri-backend/kms"
)

var keyDirFlag = &cli.StringFlag{
	Name:  "key-dir",
	Value: "./data/keys",
	Usage: "directory holding the PEM signing key pair",
}

func main() {
	app := &cli.App{
		Name:  "keytool",
		Usage: "Bootstrap and inspect the advisory signing key pair offline",
		Flags: flags.LoggingFlags,
		Commands: []*cli.Command{
			{
				Name:   "bootstrap",
				Usage:  "Load the key pair, generating and persisting one if absent",
				Flags:  []cli.Flag{keyDirFlag},
				Action: bootstrapAction,
			},
			{
				Name:   "show",
				Usage:  "Print the public verification key PEM and its fingerprint",
				Flags:  []cli.Flag{keyDirFlag},
				Action: showAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func bootstrapAction(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	keyManager := kms.NewFileKMS(cCtx.String(keyDirFlag.Name), logger)
	if err := keyManager.Bootstrap(); err != nil {
		return err
	}

	logger.Info("Key pair ready", "dir", cCtx.String(keyDirFlag.Name))
	return nil
}

func showAction(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	keyManager := kms.NewFileKMS(cCtx.String(keyDirFlag.Name), logger)
	if err := keyManager.Bootstrap(); err != nil {
		return err
	}

	pubPEM, err := keyManager.PublicKeyPEM()
	if err != nil {
		return err
	}

	fmt.Print(string(pubPEM))
	fmt.Printf("SHA-256 fingerprint: %x\n", sha256.Sum256(pubPEM))
	return nil
}
