// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwd-analyzer [COMMAND] [OPTIONS]",
		Short: "Check password strength and look passwords up in the Pwned Passwords corpus",
		Long: "Rate a password by its composition, check it against the Pwned Passwords (haveibeenpwned.com) " +
			"range API using k-anonymity, and suggest a strong replacement. Only the first 5 characters of the " +
			"password SHA1 hash ever leave this machine",
		SilenceUsage: true,
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().String("lookup-url", "https://api.pwnedpasswords.com", "Base URL of the Pwned Passwords range API")
	rootCmd.PersistentFlags().Bool("fail-closed", false, "Report range API errors instead of treating the password as not breached")

	viper.BindPFlag("LOOKUP.URL", rootCmd.PersistentFlags().Lookup("lookup-url"))
	viper.BindPFlag("LOOKUP.FAIL_CLOSED", rootCmd.PersistentFlags().Lookup("fail-closed"))
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
