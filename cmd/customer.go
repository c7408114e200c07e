package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"nestquote/internal/logger"
	"nestquote/pkg/models"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage the customer directory",
	Long: `Customers carry a default tax rate and discount that "nestquote quote
--customer" applies to a new quote.`,
}

var customerAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a customer, or update one with --id",
	Example: `  nestquote customer add --name "Acme Steel" --email buyer@acme.test --tax 7.5 --discount 5`,
	Args:    cobra.NoArgs,
	RunE:    runCustomerAdd,
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		list := customerStore().LoadAll()
		if asJSON {
			return writeJSON(list, "", logger.WithComponent("customer"))
		}
		renderCustomers(os.Stdout, list)
		return nil
	},
}

var customerRemoveCmd = &cobra.Command{
	Use:   "remove [id-or-name]",
	Short: "Remove a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := customerStore()
		c, err := store.Find(args[0])
		if err != nil {
			return err
		}
		if err := store.Remove(c.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s (%s)\n", c.CompanyName, c.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerAddCmd, customerListCmd, customerRemoveCmd)

	customerAddCmd.Flags().String("id", "", "ID of an existing customer to update")
	customerAddCmd.Flags().String("name", "", "Company name (required)")
	customerAddCmd.Flags().String("address", "", "Postal address")
	customerAddCmd.Flags().String("email", "", "Contact email")
	customerAddCmd.Flags().Float64("tax", 0, "Default tax rate in percent")
	customerAddCmd.Flags().Float64("discount", 0, "Default discount in percent")
	customerAddCmd.MarkFlagRequired("name")

	customerListCmd.Flags().Bool("json", false, "Print as JSON")
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer")

	c := models.Customer{}
	c.ID, _ = cmd.Flags().GetString("id")
	c.CompanyName, _ = cmd.Flags().GetString("name")
	c.Address, _ = cmd.Flags().GetString("address")
	c.Email, _ = cmd.Flags().GetString("email")
	c.DefaultTaxRate, _ = cmd.Flags().GetFloat64("tax")
	c.DefaultDiscountPercent, _ = cmd.Flags().GetFloat64("discount")

	saved, err := customerStore().Add(c)
	if err != nil {
		return err
	}

	log.Debug().Str("id", saved.ID).Msg("Customer stored")
	fmt.Println(saved.ID)
	return nil
}
