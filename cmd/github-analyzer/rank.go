package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/LeoncioDev/github-analyzer/internal/candidates"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/model"
)

var (
	rankJob        string
	rankJobFile    string
	rankCandidates []string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against a job description",
	Long: "Compares candidate GitHub profiles with a job description.\n" +
		"Missing values are prompted for interactively.",
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&rankJob, "job", "j", "", "job description")
	rankCmd.Flags().StringVar(&rankJobFile, "job-file", "", "read the job description from a file")
	rankCmd.Flags().StringArrayVarP(&rankCandidates, "candidate", "u", nil, "candidate profile URL (repeatable)")
	rankCmd.MarkFlagsMutuallyExclusive("job", "job-file")
	addOutputFlags(rankCmd.Flags())
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	job := rankJob
	if rankJobFile != "" {
		data, err := os.ReadFile(rankJobFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		job = string(data)
	}
	if strings.TrimSpace(job) == "" {
		if job, err = askJob(); err != nil {
			return err
		}
	}

	list := candidates.New(cfg.Candidates.Max)
	for _, c := range rankCandidates {
		if list, err = list.Add(c); err != nil {
			return &model.ValidationError{Form: model.FormRanking, Err: err}
		}
	}
	if list.Len() == 0 {
		if list, err = askCandidates(list); err != nil {
			return err
		}
	}

	a := buildApp(cfg, logger)
	defer a.Close()

	req, err := a.ctrl.BuildRanking(controller.RankingInput{JobDescription: job, Candidates: list.Items()})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	label := fmt.Sprintf("Ranking %d candidates...", list.Len())
	return submit(ctx, a, req, label, cmd.OutOrStdout())
}

func askJob() (string, error) {
	prompt := &survey.Multiline{
		Message: "Job description",
		Help:    "Paste the job description. An empty line followed by Enter finishes.",
	}
	var out string
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return out, nil
}

// askCandidates prompts for profile URLs until an empty answer or the list is full.
func askCandidates(list candidates.List) (candidates.List, error) {
	for !list.Full() {
		prompt := &survey.Input{
			Message: fmt.Sprintf("Candidate %d GitHub URL", list.Len()+1),
			Help:    "Leave empty to finish.",
		}
		var out string
		if err := survey.AskOne(prompt, &out); err != nil {
			return list, err
		}
		if strings.TrimSpace(out) == "" {
			break
		}
		next, err := list.Add(out)
		if err != nil {
			fmt.Fprintln(os.Stderr, model.Describe(&model.ValidationError{Form: model.FormRanking, Err: err}))
			continue
		}
		list = next
	}
	if list.Len() == 0 {
		return list, &model.ValidationError{Form: model.FormRanking, Err: model.ErrNoCandidates}
	}
	return list, nil
}

