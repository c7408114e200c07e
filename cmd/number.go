package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"nestquote/internal/logger"
)

var numberCmd = &cobra.Command{
	Use:   "number",
	Short: "Issue the next quote number",
	Long: `Consume and print the next quote number from the shared counter file.
Every call hands out a new number, also across concurrent processes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := quoteIssuer().NextFormatted()
		if err != nil {
			return err
		}
		numberLog := logger.WithComponent("number")
		numberLog.Info().Str("quote", number).Msg("Quote number issued")
		fmt.Println(number)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(numberCmd)
}
