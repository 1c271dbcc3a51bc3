package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yashbavkar26/agri-backend/api"
	"github.com/yashbavkar26/agri-backend/api/clients"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

var serverAddrFlag = &cli.StringFlag{
	Name:  "server-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "base URL of the advisory certificate service",
}

var authTokenFlag = &cli.StringFlag{
	Name:  "auth-token",
	Value: "",
	Usage: "optional bearer token carrying the requester identity",
}

func main() {
	app := &cli.App{
		Name:  "certclient",
		Usage: "Issue and verify advisory certificates against a running service",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Request a signed certificate for a question/answer exchange",
				Flags: []cli.Flag{
					serverAddrFlag,
					authTokenFlag,
					&cli.StringFlag{Name: "user", Usage: "requester identity"},
					&cli.StringFlag{Name: "query", Required: true, Usage: "question text"},
					&cli.StringFlag{Name: "lang", Usage: "language tag (default ml)"},
					&cli.StringFlag{Name: "answer", Required: true, Usage: "advisory answer text"},
				},
				Action: issueAction,
			},
			{
				Name:      "verify",
				Usage:     "Verify a signed certificate read from a JSON file (or stdin with -)",
				ArgsUsage: "<certificate.json>",
				Flags:     []cli.Flag{serverAddrFlag},
				Action:    verifyAction,
			},
			{
				Name:   "signing-key",
				Usage:  "Fetch the service's public verification key PEM",
				Flags:  []cli.Flag{serverAddrFlag},
				Action: signingKeyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) *clients.CertificateClient {
	return &clients.CertificateClient{
		ServerAddr: cCtx.String(serverAddrFlag.Name),
		AuthToken:  cCtx.String(authTokenFlag.Name),
	}
}

func issueAction(cCtx *cli.Context) error {
	client := newClient(cCtx)

	resp, err := client.Issue(api.IssuanceRequest{
		UserID:     cCtx.String("user"),
		QueryText:  cCtx.String("query"),
		Lang:       cCtx.String("lang"),
		AnswerText: cCtx.String("answer"),
	})
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func verifyAction(cCtx *cli.Context) error {
	path := cCtx.Args().First()
	if path == "" {
		return fmt.Errorf("certificate file argument is required")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("could not read certificate: %w", err)
	}

	var cert interfaces.SignedCertificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return fmt.Errorf("could not parse certificate: %w", err)
	}

	valid, err := newClient(cCtx).Verify(cert)
	if err != nil {
		return err
	}

	if valid {
		fmt.Println("certificate is valid")
		return nil
	}
	fmt.Println("certificate is NOT valid")
	os.Exit(1)
	return nil
}

func signingKeyAction(cCtx *cli.Context) error {
	key, err := newClient(cCtx).SigningKey()
	if err != nil {
		return err
	}
	fmt.Print(string(key))
	return nil
}
