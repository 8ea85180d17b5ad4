package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the color theme",
	Args:  cobra.NoArgs,
	RunE:  runTheme,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between the light and dark theme",
	Args:  cobra.NoArgs,
	RunE:  runThemeToggle,
}

func init() {
	themeCmd.AddCommand(themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	a := themeApp()
	defer a.Close()

	fmt.Fprintln(cmd.OutOrStdout(), a.themes.Current())
	return nil
}

func runThemeToggle(cmd *cobra.Command, args []string) error {
	a := themeApp()
	defer a.Close()

	if !a.cfg.Theme.Persist {
		fmt.Fprintln(cmd.ErrOrStderr(), "theme.persist is off; the choice will not be saved")
	}
	t, err := a.themes.Toggle()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)
	return nil
}

func themeApp() *app {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return buildApp(cfg, logger)
}
