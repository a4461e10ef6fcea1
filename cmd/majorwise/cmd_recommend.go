package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/majorwise/majorwise/internal/menu"
	"github.com/majorwise/majorwise/pkg/facts"
)

var (
	interestsFlag string
	styleFlag     string
	envFlag       string
	goalFlag      string
	topNFlag      int
	jsonOutput    bool
	gradeFlags    = map[string]*float64{}
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank majors for one student profile",
	Long: `Runs a single consultation from flags and prints the ranked majors with
the rules that fired for each.

Example:
  majorwise recommend --interests Investigative,Realistic \
    --math 95 --physics 92 --biology 80 --chemistry 90 --language 78 \
    --style visual --environment riset --goal "insinyur robotik"`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&interestsFlag, "interests", "", "comma separated RIASEC interests")
	for _, subject := range facts.Subjects {
		gradeFlags[subject] = recommendCmd.Flags().Float64(subject, 0, subject+" grade (0-100)")
	}
	recommendCmd.Flags().StringVar(&styleFlag, "style", "", "learning style (visual|auditori|kinestetik)")
	recommendCmd.Flags().StringVar(&envFlag, "environment", "", "preferred environment (riset|industri|kreatif)")
	recommendCmd.Flags().StringVar(&goalFlag, "goal", "", "career goal, free text")
	recommendCmd.Flags().IntVarP(&topNFlag, "top-n", "n", 0, "number of majors to show (default from config)")
	recommendCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the run as JSON")
}

func factsFromFlags(cmd *cobra.Command) (facts.Facts, error) {
	interests, err := facts.ParseInterests(interestsFlag)
	if err != nil {
		return facts.Facts{}, err
	}
	grades := make(map[string]float64, len(facts.Subjects))
	for _, subject := range facts.Subjects {
		if cmd.Flags().Changed(subject) {
			grades[subject] = *gradeFlags[subject]
		}
	}

	f := facts.Facts{
		Interests:     interests,
		Grades:        grades,
		LearningStyle: styleFlag,
		Environment:   envFlag,
		CareerGoal:    goalFlag,
	}
	f.Normalize()
	if err := f.Valid(); err != nil {
		return facts.Facts{}, err
	}
	return f, nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	f, err := factsFromFlags(cmd)
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	adv, err := newAdvisor()
	if err != nil {
		return err
	}
	defer adv.Close()

	run, err := adv.Recommend(cmd.Context(), f, topNFlag, "cli")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	menu.PrintRecommendations(out, run.Recommendations)
	return nil
}
