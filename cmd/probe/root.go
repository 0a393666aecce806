package main

import (
	"fmt"
	"io"

	"markov-qa-be/internal/config"
	"markov-qa-be/pkg/probe"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type probeFlags struct {
	input      string
	seed       string
	secretName string
	serverURL  string
	decryptURL string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	flags := probeFlags{
		input:      cfg.Probe.Input,
		seed:       cfg.Probe.UserSeed,
		secretName: cfg.Probe.SecretName,
		serverURL:  cfg.Probe.ServerURL,
		decryptURL: cfg.Probe.DecryptURL,
	}

	cmd := &cobra.Command{
		Use:           "probe",
		Short:         "Send a question to the remote server and print the decrypted reply",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := probe.NewClient(probe.Config{
				ServerURL:  flags.serverURL,
				DecryptURL: flags.decryptURL,
				Seed:       flags.seed,
				SecretName: flags.secretName,
			})
			if err != nil {
				return err
			}
			return runProbe(cmd, client, flags.input)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", flags.input, "text to submit")
	cmd.Flags().StringVar(&flags.seed, "seed", flags.seed, "user seed used to retrieve the secret")
	cmd.Flags().StringVar(&flags.secretName, "secret-name", flags.secretName, "secret name when the server does not return one")
	cmd.Flags().StringVar(&flags.serverURL, "server-url", flags.serverURL, "endpoint that accepts the input")
	cmd.Flags().StringVar(&flags.decryptURL, "decrypt-url", flags.decryptURL, "secret retrieval endpoint")

	return cmd
}

func runProbe(cmd *cobra.Command, client *probe.Client, input string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, color.YellowString("[1/2] Submitting input"))
	ref, err := client.SubmitInput(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, color.GreenString("store_id=%s secret_name=%s", ref.StoreID, ref.SecretName))

	fmt.Fprintln(out, color.YellowString("[2/2] Retrieving secret"))
	secret, err := client.RetrieveSecret(ctx, ref)
	if err != nil {
		return err
	}

	printSecret(out, secret)
	return nil
}

func printSecret(out io.Writer, secret probe.Secret) {
	fmt.Fprintln(out, color.CyanString("Decrypted response:"))
	fmt.Fprintln(out, secret.Text())
}
