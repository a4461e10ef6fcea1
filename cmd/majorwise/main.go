package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/config"
	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/internal/logger"
)

var (
	// Global flags
	cfgPath string
	logMode string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "majorwise",
	Short: "Weighted-rule expert system for choosing a study major",
	Long: `majorwise ranks academic majors for a student profile by forward chaining
over a weighted rule base. Each major is scored by the share of its rule
weight that fired, and every result lists the rules that support it.

Run without arguments to start the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		if logMode != "" {
			cfg.Log.Mode = logMode
		}

		log, err = logger.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
	RunE: runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "log mode override (development|production|nop)")

	rootCmd.AddCommand(serveCmd, recommendCmd, rulesCmd, menuCmd)
}

// buildKnowledge assembles the rule base described by the rules section.
func buildKnowledge(rc config.RulesConfig) (*knowledge.KnowledgeBase, error) {
	kb := knowledge.NewWithRules(nil)
	if rc.Builtin() {
		kb = knowledge.New()
	}
	if rc.RulesPath != "" {
		seeds, err := knowledge.LoadRules(rc.RulesPath)
		if err != nil {
			return nil, err
		}
		knowledge.Seed(kb, seeds)
	}
	return kb, nil
}

func newAdvisor(opts ...advisor.Option) (*advisor.Advisor, error) {
	kb, err := buildKnowledge(cfg.Rules)
	if err != nil {
		return nil, err
	}
	log.Info("rule base loaded", "rules", kb.Len(), "majors", len(kb.Majors()), "rules_path", cfg.Rules.RulesPath)

	opts = append([]advisor.Option{
		advisor.WithLogger(log),
		advisor.WithTopN(cfg.Recommend.TopN),
	}, opts...)
	return advisor.New(kb, opts...), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
