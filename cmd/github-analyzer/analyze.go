package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/model"
)

var analyzeRecruiter bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <username|url>",
	Short: "Analyze a single GitHub profile",
	Long: "Sends one profile to the analysis service and prints the result.\n" +
		"The profile may be a bare username, @username or a github.com URL.",
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRecruiter, "recruiter", false, "analyze from a recruiter's point of view")
	addOutputFlags(analyzeCmd.Flags())
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a := buildApp(cfg, logger)
	defer a.Close()

	analysisContext := model.ContextSelfAnalysis
	if analyzeRecruiter {
		analysisContext = model.ContextRecruiter
	}
	req, err := a.ctrl.BuildProfile(controller.ProfileInput{UsernameOrURL: args[0], Context: analysisContext})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return submit(ctx, a, req, "Analyzing "+args[0]+"...", cmd.OutOrStdout())
}
