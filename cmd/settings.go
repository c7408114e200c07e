package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"nestquote/internal/logger"
	"nestquote/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and initialize the settings file",
	Long: `The settings file holds company details, the hourly laser rate, tax and
default discount, and the extra charges offered on quotes. It is a YAML file
in the data directory and may be edited by hand; use "settings check" after
editing.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := settingsStore()
		data, err := yaml.Marshal(store.Load())
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Fprintln(os.Stderr, mutedStyle.Render("# "+store.Path))
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := settingsStore()
		st, err := store.Read()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no settings file at %s, run \"nestquote settings init\"", store.Path)
			}
			return err
		}
		fmt.Println(titleStyle.Render("✓ settings valid") + mutedStyle.Render(fmt.Sprintf("  %d extra charges", len(st.ExtraCharges))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsInitCmd, settingsCheckCmd)

	settingsInitCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
}

func runSettingsInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("settings")
	force, _ := cmd.Flags().GetBool("force")

	store := settingsStore()
	if _, err := os.Stat(store.Path); err == nil && !force {
		return fmt.Errorf("settings file %s already exists, use --force to overwrite", store.Path)
	}

	if err := store.Save(settings.Default()); err != nil {
		return err
	}
	log.Info().Str("path", store.Path).Msg("Default settings written")
	fmt.Println(store.Path)
	return nil
}
