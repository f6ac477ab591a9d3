// Command findable is the CLI entry point: question-catalog introspection,
// a full evaluation run built from company and domain flags alone (no page
// chunks are loaded, so retrieval searches an empty index), and a small
// question server; run and serve read config.Load().
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avgjoe1017/findable-v1-sub000/internal/catalog"
	"github.com/avgjoe1017/findable-v1-sub000/internal/config"
	"github.com/avgjoe1017/findable-v1-sub000/internal/httpapi"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/pipeline"
	"github.com/avgjoe1017/findable-v1-sub000/internal/providerhub"
)

var (
	flagCI       bool
	flagFormat   string
	flagConfig   string
	flagOutput   string
	flagNoPager  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "findable",
		Short: "Measure and improve how well a site can be sourced by AI assistants",
	}
	root.PersistentFlags().BoolVar(&flagCI, "ci", false, "run in CI mode: forces json output, disables the pager")
	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text or json")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a config.yaml; only its directory is used and the file read there is config.yaml (defaults to ./config.yaml)")
	root.PersistentFlags().StringVar(&flagOutput, "output", "", "write output to this file instead of stdout")
	root.PersistentFlags().BoolVar(&flagNoPager, "no-pager", false, "never pipe output through a pager")

	root.AddCommand(newRunCmd())
	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newServeCmd())
	return root
}

func newLogger() *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if flagCI {
		log.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(log)
}

// newRunCmd implements `findable run`: execute one full evaluation against
// a site and print the assembled report.
func newRunCmd() *cobra.Command {
	var companyName, domain, title, description string
	var useMockProvider bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full sourceability evaluation against a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCIDefaults(cmd, &flagFormat, &flagNoPager, flagCI)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var provider providerhub.Provider
			if useMockProvider {
				provider = providerhub.NewMockProvider()
			} else if cfg.OpenAIAPIKey != "" {
				p, err := providerhub.New(providerhub.Config{Kind: providerhub.KindOpenAI, APIKey: cfg.OpenAIAPIKey})
				if err != nil {
					return err
				}
				provider = p
			}

			in := pipeline.Input{
				SiteID: domain,
				RunID:  uuid.New(),
				SiteContext: models.SiteContext{
					CompanyName: companyName,
					Domain:      domain,
					Title:       title,
					Description: description,
				},
				Primary: provider,
			}

			opts := pipeline.DefaultOptions()
			opts.RunObservation = provider != nil
			opts.RunBenchmark = false

			report, err := pipeline.Run(cmd.Context(), newLogger(), in, opts)
			if err != nil {
				return err
			}

			out, err := formatReport(report, flagFormat)
			if err != nil {
				return err
			}
			return writeOutput(out, flagOutput, flagFormat, flagNoPager)
		},
	}
	cmd.Flags().StringVar(&companyName, "company", "", "company name")
	cmd.Flags().StringVar(&domain, "domain", "", "site domain")
	cmd.Flags().StringVar(&title, "title", "", "homepage title, if known")
	cmd.Flags().StringVar(&description, "description", "", "homepage meta description, if known")
	cmd.Flags().BoolVar(&useMockProvider, "mock", false, "use the mock provider instead of a configured one")
	cmd.MarkFlagRequired("company")
	cmd.MarkFlagRequired("domain")
	return cmd
}

// newQuestionsCmd implements `findable questions`: print the universal
// catalog, optionally filtered and optionally derived for a site.
func newQuestionsCmd() *cobra.Command {
	var category, difficulty, companyName, domain string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the question catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCIDefaults(cmd, &flagFormat, &flagNoPager, flagCI)

			var questions []models.Question
			if companyName != "" || domain != "" {
				set := catalog.GenerateForSite(models.SiteContext{CompanyName: companyName, Domain: domain}, catalog.DefaultOptions())
				questions = set.All()
			} else {
				questions = catalog.Universal()
			}
			if category != "" {
				questions = filterByCategory(questions, models.Category(category))
			}
			if difficulty != "" {
				questions = filterByDifficulty(questions, models.Difficulty(difficulty))
			}

			out, err := formatQuestions(questions, flagFormat)
			if err != nil {
				return err
			}
			return writeOutput(out, flagOutput, flagFormat, flagNoPager)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty")
	cmd.Flags().StringVar(&companyName, "company", "", "derive additional questions for this company")
	cmd.Flags().StringVar(&domain, "domain", "", "derive additional questions for this domain")
	return cmd
}

// newServeCmd implements `findable serve`: mount the question-service HTTP
// surface on the configured port.
func newServeCmd() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question-catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if secret == "" {
				secret = os.Getenv("FINDABLE_JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("findable serve: --secret or FINDABLE_JWT_SECRET is required")
			}

			if cfg.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery())
			httpapi.NewServer([]byte(secret)).Register(r)

			log := newLogger()
			log.WithField("port", cfg.Port).Info("starting question service")
			return r.Run(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret for JWT auth (defaults to FINDABLE_JWT_SECRET)")
	return cmd
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		if err := os.Chdir(dirOf(flagConfig)); err != nil {
			return nil, fmt.Errorf("findable: cannot reach config dir: %w", err)
		}
	}
	return config.Load()
}

func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

func filterByCategory(qs []models.Question, cat models.Category) []models.Question {
	var out []models.Question
	for _, q := range qs {
		if q.Category == cat {
			out = append(out, q)
		}
	}
	return out
}

func filterByDifficulty(qs []models.Question, diff models.Difficulty) []models.Question {
	var out []models.Question
	for _, q := range qs {
		if q.Difficulty == diff {
			out = append(out, q)
		}
	}
	return out
}

func formatReport(report models.FullReport, format string) (string, error) {
	if format == "json" {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("findable: marshal report: %w", err)
		}
		return string(b), nil
	}

	s := report.Score
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sourceability report for %s (%s)\n", report.Metadata.CompanyName, report.Metadata.Domain)
	fmt.Fprintf(&sb, "  total score:   %.1f (%s)\n", s.TotalScore, s.Grade)
	fmt.Fprintf(&sb, "  coverage:      %.1f%% (%d/%d answered, %d partial, %d unanswered)\n",
		s.CoveragePercentage, s.QuestionsAnswered, s.TotalQuestions, s.QuestionsPartial, s.QuestionsUnanswered)
	if len(report.Fixes.Fixes) > 0 {
		fmt.Fprintf(&sb, "  top fixes:\n")
		for i, f := range report.Fixes.Fixes {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "    - [priority %d/%s] %s\n", f.Priority, f.EffortLevel, f.Title)
		}
	}
	if len(report.Metadata.Limitations) > 0 {
		fmt.Fprintf(&sb, "  limitations:\n")
		for _, l := range report.Metadata.Limitations {
			fmt.Fprintf(&sb, "    - %s\n", l)
		}
	}
	return sb.String(), nil
}

func formatQuestions(questions []models.Question, format string) (string, error) {
	if format == "json" {
		b, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return "", fmt.Errorf("findable: marshal questions: %w", err)
		}
		return string(b), nil
	}
	var sb strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&sb, "[%s/%s] %s  (weight %.1f)\n", q.Category, q.Difficulty, q.Text, q.Weight)
	}
	return sb.String(), nil
}

// applyCIDefaults forces json output and no-pager once --ci is set, unless
// the caller already changed those flags explicitly.
func applyCIDefaults(cmd *cobra.Command, format *string, noPager *bool, ci bool) {
	if !ci {
		return
	}
	if !cmd.Flags().Changed("format") {
		*format = "json"
	}
	if !cmd.Flags().Changed("no-pager") {
		*noPager = true
	}
}

// writeOutput sends output to path if set, otherwise through a pager when
// stdout is a terminal and the format is text, otherwise straight to
// stdout.
func writeOutput(output, path, format string, noPager bool) error {
	if path != "" {
		return os.WriteFile(path, []byte(output), 0o644)
	}
	if format == "text" && !noPager && isTerminal() {
		return outputWithPager(output)
	}
	fmt.Print(output)
	return nil
}

// isTerminal reports whether stdout is a character device, without taking
// on an extra terminal-detection dependency the rest of the module does
// not otherwise need.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// outputWithPager pipes output through $PAGER, defaulting to less -R -X.
func outputWithPager(output string) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less -R -X"
	}
	fields := strings.Fields(pager)
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		fmt.Print(output)
		return nil
	}
	if err := cmd.Start(); err != nil {
		fmt.Print(output)
		return nil
	}
	go func() {
		defer stdin.Close()
		fmt.Fprint(stdin, output)
	}()
	return cmd.Wait()
}
