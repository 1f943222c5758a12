package cli

import (
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/pkg/suggest"
	"github.com/spf13/cobra"
)

var (
	suggestCmd = &cobra.Command{
		Use:   "suggest",
		Short: "Generate strong passwords",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			g := suggest.New()
			for i := 0; i < count; i++ {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), g.Generate()); err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	suggestCmd.Flags().IntVarP(&count, "count", "c", 1, "Number of passwords to generate")

	rootCmd.AddCommand(suggestCmd)
}
