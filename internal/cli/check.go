package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"io"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [password]",
		Short: "Check the strength of a password and if it has been pwned",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return checkCommand(cmd.Context(), cmd.OutOrStdout(), "")
			} else {
				return checkCommand(cmd.Context(), cmd.OutOrStdout(), args[0])
			}
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	checkCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string. Hashes are only checked against the breach corpus.")
	checkCmd.Flags().StringSliceVarP(&userInputs, "user-input", "u", nil, "Words the password should not be based on, like a user name or email. Used for the strength estimate.")

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(ctx context.Context, out io.Writer, password string) (err error) {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	svc, err := loadServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if interactive {
		var label string
		if hashed {
			label = "SHA1 Hex hash"
		} else {
			label = "Password"
		}

		prompt := promptui.Prompt{
			Label: label,
			Validate: func(input string) error {
				if len(input) == 0 {
					return errors.New("please enter a valid password")
				}

				if hashed {
					if _, err := hibp.ParseDigest(input); err != nil {
						return err
					}
				}
				return nil
			},
		}

		if !hashed {
			prompt.Mask = '*'
		} else {
			log.Info().Msgf("Flag 'hashed' is set. Please use SHA1 Hashed passwords.")
		}

		log.Info().Msgf("Running interactive session. ^C to exit")
		if err = runInteractiveSession(ctx, out, prompt, svc); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
			} else {
				log.Error().Err(err).Msgf("Error during interactive session")
			}
			// No return to avoid the default cobra error message
			return nil
		}
	} else {
		return checkInput(ctx, out, password, svc)
	}

	return
}

func runInteractiveSession(ctx context.Context, out io.Writer, prompt promptui.Prompt, svc *services) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		if err = checkInput(ctx, out, result, svc); err != nil {
			log.Error().Err(err).Msg("Error during check")
		}
	}
}

func checkInput(ctx context.Context, out io.Writer, input string, svc *services) error {
	if hashed {
		digest, err := hibp.ParseDigest(input)
		if err != nil {
			return err
		}

		breached, err := svc.checker.IsDigestBreached(ctx, digest)
		if err != nil {
			return err
		}

		if breached {
			_, _ = fmt.Fprintln(out, "Hash is present in the Pwned Passwords corpus")
		} else {
			_, _ = fmt.Fprintln(out, "Hash is not present in the Pwned Passwords corpus")
		}
		return nil
	}

	report, err := svc.evaluator.Report(ctx, input, userInputs...)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s: %s\n", report.Tier.Label(), report.Reason)
	_, _ = fmt.Fprintf(out, "Estimated crack time: %s (score %d/4)\n", report.Estimation.CrackTimeDisplay, report.Estimation.Score)
	if report.Suggestion != "" {
		_, _ = fmt.Fprintf(out, "Suggested password: %s\n", report.Suggestion)
	}

	return nil
}
