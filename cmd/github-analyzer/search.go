package main

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/LeoncioDev/github-analyzer/internal/config"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
)

var (
	searchLanguages     []string
	searchSkills        []string
	searchMethodologies []string
	searchMinRepos      int
	searchMinStars      int
	searchMinFollowers  int
	searchRecent        bool
	searchLocation      string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find a profile matching technical filters",
	Long: "Searches for a GitHub profile matching languages, skills and methodologies.\n" +
		"With no filter flags the options from the config are offered as a checklist.\n" +
		"Unset thresholds fall back to filters.defaults in the config.",
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVarP(&searchLanguages, "lang", "l", nil, "programming language (repeatable or comma-separated)")
	f.StringSliceVarP(&searchSkills, "skill", "s", nil, "skill or tool (repeatable or comma-separated)")
	f.StringSliceVarP(&searchMethodologies, "method", "m", nil, "methodology (repeatable or comma-separated)")
	f.IntVar(&searchMinRepos, "min-repos", 0, "minimum public repositories")
	f.IntVar(&searchMinStars, "min-stars", 0, "minimum stars")
	f.IntVar(&searchMinFollowers, "min-followers", 0, "minimum followers")
	f.BoolVar(&searchRecent, "recent", false, "require recent activity (--recent=false to exclude it)")
	f.StringVar(&searchLocation, "location", "", "location")
	addOutputFlags(f)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	in := controller.FilterInput{
		Languages:     searchLanguages,
		Skills:        searchSkills,
		Methodologies: searchMethodologies,
		Location:      searchLocation,
	}
	flags := cmd.Flags()
	if flags.Changed("min-repos") {
		in.MinRepos = &searchMinRepos
	}
	if flags.Changed("min-stars") {
		in.MinStars = &searchMinStars
	}
	if flags.Changed("min-followers") {
		in.MinFollowers = &searchMinFollowers
	}
	if flags.Changed("recent") {
		in.RecentActivity = &searchRecent
	}

	if len(in.Languages)+len(in.Skills)+len(in.Methodologies) == 0 {
		if in, err = askFilters(in, cfg.Filters); err != nil {
			return err
		}
	}

	a := buildApp(cfg, logger)
	defer a.Close()

	req, err := a.ctrl.BuildFilters(in)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return submit(ctx, a, req, "Searching profiles...", cmd.OutOrStdout())
}

// askFilters offers the configured options as checklists.
func askFilters(in controller.FilterInput, opts config.FiltersConfig) (controller.FilterInput, error) {
	qs := []*survey.Question{
		{Name: "languages", Prompt: &survey.MultiSelect{Message: "Languages", Options: opts.Languages}},
		{Name: "skills", Prompt: &survey.MultiSelect{Message: "Skills", Options: opts.Skills}},
		{Name: "methodologies", Prompt: &survey.MultiSelect{Message: "Methodologies", Options: opts.Methodologies}},
	}
	var answers struct {
		Languages     []string `survey:"languages"`
		Skills        []string `survey:"skills"`
		Methodologies []string `survey:"methodologies"`
	}
	if err := survey.Ask(qs, &answers); err != nil {
		return in, err
	}
	in.Languages = answers.Languages
	in.Skills = answers.Skills
	in.Methodologies = answers.Methodologies
	return in, nil
}
