package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pmdrill/internal/bootstrap"
	catalogdto "pmdrill/internal/modules/catalog/dto"
	coachdto "pmdrill/internal/modules/coach/dto"
	interviewdto "pmdrill/internal/modules/interview/dto"
	"pmdrill/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pmdrill",
		Short:         "Product management interview practice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $XDG_DATA_HOME/pmdrill)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newCatalogCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newCoachCmd(&dataDir))
	root.AddCommand(newConfigCmd(&dataDir))
	return root
}

func resolveDataDir(dataDir string) (string, error) {
	if strings.TrimSpace(dataDir) != "" {
		return dataDir, nil
	}
	return config.DefaultDataDir()
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	dir, err := resolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.New(dir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(dataDir string, fn func(*bootstrap.App) error) (err error) {
	app, err := loadApp(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the practice terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("tui requires an interactive terminal")
			}
			return withApp(*dataDir, bootstrap.RunTUI)
		},
	}
}

func addFilterFlags(cmd *cobra.Command, filter *catalogdto.FilterInput, maxMinutes *int) {
	cmd.Flags().StringSliceVar(&filter.Categories, "category", nil, "categories to include")
	cmd.Flags().StringSliceVar(&filter.Difficulties, "difficulty", nil, "difficulties to include")
	cmd.Flags().IntVar(maxMinutes, "max-minutes", 0, "maximum estimated minutes per question")
	cmd.Flags().StringVar(&filter.Search, "search", "", "case-insensitive text search")
	cmd.Flags().StringSliceVar(&filter.Tags, "tags", nil, "tags (any match)")
	cmd.Flags().BoolVar(&filter.ExcludeContextRequired, "exclude-context", false, "skip questions that need extra context")
}

func applyMaxMinutes(cmd *cobra.Command, filter *catalogdto.FilterInput, maxMinutes int) {
	if cmd.Flags().Changed("max-minutes") {
		filter.MaxMinutes = &maxMinutes
	}
}

func newCatalogCmd(dataDir *string) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Browse the question catalog"}

	var filter catalogdto.FilterInput
	var maxMinutes int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List questions matching a filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyMaxMinutes(cmd, &filter, maxMinutes)
			return withApp(*dataDir, func(app *bootstrap.App) error {
				questions, err := app.CatalogCLI.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(questions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no questions match")
					return nil
				}
				for _, q := range questions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s/%s\t%s\t%s\n", q.ID, q.Category, q.Difficulty, minutesLabel(q.EstimatedMinutes), q.Prompt)
				}
				return nil
			})
		},
	}
	addFilterFlags(listCmd, &filter, &maxMinutes)

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				q, err := app.CatalogCLI.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printQuestion(cmd.OutOrStdout(), interviewdto.QuestionView(q))
				return nil
			})
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a user catalog file (defaults to the configured catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				path := app.CatalogPath()
				if len(args) == 1 {
					path = args[0]
				}
				out, err := app.CatalogCLI.Validate(cmd.Context(), path)
				if err != nil {
					return err
				}
				for _, problem := range out.Problems {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "problem: %s\n", problem)
				}
				if len(out.Problems) > 0 {
					return fmt.Errorf("%s: %d problem(s)", out.Path, len(out.Problems))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s ok (%d questions)\n", out.Path, out.Questions)
				return nil
			})
		},
	}

	catalog.AddCommand(listCmd, showCmd, validateCmd)
	return catalog
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Run a practice session"}

	var (
		count      int
		randomize  bool
		filter     catalogdto.FilterInput
		maxMinutes int
	)
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session, replacing any active one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyMaxMinutes(cmd, &filter, maxMinutes)
			return withApp(*dataDir, func(app *bootstrap.App) error {
				input := interviewdto.StartInput{QuestionCount: count, Randomize: randomize, Filter: filter}
				if !cmd.Flags().Changed("count") {
					input.QuestionCount = app.Config().QuestionCount
				}
				if !cmd.Flags().Changed("randomize") {
					input.Randomize = app.Config().Randomize
				}
				out, err := app.InterviewCLI.Start(cmd.Context(), input)
				if err != nil {
					return err
				}
				if out.Shortfall {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "only %d of %d requested questions match the filter\n", out.Selected, out.Requested)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started session %s with %d questions\n", out.Session.ID, len(out.Session.Questions))
				printQuestion(cmd.OutOrStdout(), out.Session.Questions[out.Session.CurrentIndex])
				return nil
			})
		},
	}
	startCmd.Flags().IntVar(&count, "count", 5, "number of questions")
	startCmd.Flags().BoolVar(&randomize, "randomize", true, "shuffle matching questions")
	addFilterFlags(startCmd, &filter, &maxMinutes)

	session.AddCommand(startCmd)
	session.AddCommand(statusCmd(dataDir, "status", "Show the active session", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Status(ctx)
	}))
	session.AddCommand(statusCmd(dataDir, "next", "Move to the next question", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Next(ctx)
	}))
	session.AddCommand(statusCmd(dataDir, "prev", "Move to the previous question", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Previous(ctx)
	}))
	session.AddCommand(statusCmd(dataDir, "pause", "Pause the active session", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Pause(ctx)
	}))
	session.AddCommand(statusCmd(dataDir, "resume", "Resume a paused session", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Resume(ctx)
	}))
	session.AddCommand(statusCmd(dataDir, "complete", "Complete the session and record it in history", func(ctx context.Context, app *bootstrap.App) (interviewdto.StatusOutput, error) {
		return app.InterviewCLI.Complete(ctx)
	}))

	jumpCmd := &cobra.Command{
		Use:   "jump <number>",
		Short: "Jump to question number (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var number int
			if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
				return fmt.Errorf("invalid question number %q", args[0])
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.InterviewCLI.Jump(cmd.Context(), number)
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	var questionID, file string
	var duration int
	answerCmd := &cobra.Command{
		Use:   "answer [text]",
		Short: "Record an answer for the current question",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := answerContent(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}
			var durationSec *int
			if cmd.Flags().Changed("duration") {
				durationSec = &duration
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.InterviewCLI.Answer(cmd.Context(), questionID, content, durationSec)
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	answerCmd.Flags().StringVar(&questionID, "question", "", "question id (defaults to the current question)")
	answerCmd.Flags().IntVar(&duration, "duration", 0, "seconds spent (defaults to the question timer)")
	answerCmd.Flags().StringVar(&file, "file", "", "read the answer from a file (- for stdin)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the active session without recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.InterviewCLI.Clear(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
				return nil
			})
		},
	}

	var interval time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the session timer headless until the session completes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return runWatch(ctx, cmd.OutOrStdout(), app, interval)
			})
		},
	}
	watchCmd.Flags().DurationVar(&interval, "interval", time.Second, "timer sampling interval")

	session.AddCommand(jumpCmd, answerCmd, clearCmd, watchCmd)
	return session
}

func statusCmd(dataDir *string, use, short string, run func(context.Context, *bootstrap.App) (interviewdto.StatusOutput, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := run(cmd.Context(), app)
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

// runWatch samples the timer and keeps the catalog fresh until the session
// completes or ctx is cancelled.
func runWatch(ctx context.Context, w io.Writer, app *bootstrap.App, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.InterviewCLI.Watch(ctx, interval, func(out interviewdto.TimerOutput) {
			_, _ = fmt.Fprintf(w, "\relapsed %s  question %s  remaining %s ", clock(out.Elapsed), clock(out.QuestionElapsed), clock(out.Remaining))
			if out.AutoCompleted {
				_, _ = fmt.Fprintln(w, "\ntime limit reached, session completed")
			}
		})
	})
	g.Go(func() error {
		return app.CatalogWatcher.Run(ctx)
	})
	err := g.Wait()
	_, _ = fmt.Fprintln(w)
	return err
}

func answerContent(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case file == "-":
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read answer file: %w", err)
		}
		return string(raw), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("answer text is required (argument or --file)")
	}
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Completed session history"}

	history.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List completed sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				entries, err := app.HistoryCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed sessions")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d/%d answered\t%s\t%s\n",
						e.ID, humanize.Time(e.StartTime), e.Responses, e.Questions, e.Duration.Round(time.Second), strings.Join(e.Categories, ","))
				}
				return nil
			})
		},
	})

	history.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				record, err := app.HistoryCLI.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "session %s\nstarted %s (%s)\n", record.ID, record.StartTime.Format(time.RFC1123), humanize.Time(record.StartTime))
				if record.EndTime != nil {
					_, _ = fmt.Fprintf(out, "duration %s\n", record.EndTime.Sub(record.StartTime).Round(time.Second))
				}
				answers := make(map[string]string, len(record.Responses))
				for _, r := range record.Responses {
					answers[r.QuestionID] = fmt.Sprintf("%s (%ds)", strings.TrimSpace(r.Content), r.DurationSec)
				}
				for i, q := range record.Questions {
					_, _ = fmt.Fprintf(out, "\n%d. [%s/%s] %s\n", i+1, q.Category, q.Difficulty, q.Prompt)
					if answer, ok := answers[q.ID]; ok {
						_, _ = fmt.Fprintf(out, "   %s\n", answer)
					} else {
						_, _ = fmt.Fprintln(out, "   (unanswered)")
					}
				}
				return nil
			})
		},
	})

	var format, target string
	exportCmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.HistoryCLI.Export(cmd.Context(), args[0], format, target)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%s) to %s\n", out.Filename, humanize.Bytes(uint64(out.Bytes)), out.Location)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "export format: json|markdown")
	exportCmd.Flags().StringVar(&target, "target", "file", "export target: file|clipboard")

	history.AddCommand(exportCmd)
	history.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a session from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				removed, err := app.HistoryCLI.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no session %s\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	})

	history.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summarize practice history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				stats, err := app.HistoryCLI.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "sessions=%s questions=%s answered=%s\n",
					humanize.Comma(int64(stats.Sessions)), humanize.Comma(int64(stats.Questions)), humanize.Comma(int64(stats.Responses)))
				_, _ = fmt.Fprintf(out, "practice time %s, average answer %s\n", stats.TotalDuration.Round(time.Second), stats.AverageAnswer.Round(time.Second))
				if stats.LastSessionAt != nil {
					_, _ = fmt.Fprintf(out, "last session %s\n", humanize.Time(*stats.LastSessionAt))
				}
				for _, c := range stats.ByCategory {
					_, _ = fmt.Fprintf(out, "  %-16s %d/%d answered\n", c.Category, c.Answered, c.Questions)
				}
				return nil
			})
		},
	})
	return history
}

func newCoachCmd(dataDir *string) *cobra.Command {
	coach := &cobra.Command{Use: "coach", Short: "Question generation and answer analysis plugins"}

	coach.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured coach plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				plugins, err := app.CoachCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\t%s\t%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Capabilities, ","), p.Binary)
				}
				return nil
			})
		},
	})

	coach.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				results, err := app.CoachCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				failed := 0
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tchecksum=%t\tbinary=%t\tlifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						failed++
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\t%s", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				if failed > 0 {
					return fmt.Errorf("%d plugin(s) unhealthy", failed)
				}
				return nil
			})
		},
	})

	var category, difficulty, topic string
	var start bool
	questionCmd := &cobra.Command{
		Use:   "question",
		Short: "Ask the coach for a new question",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				q, err := app.CoachCLI.Question(cmd.Context(), category, difficulty, topic)
				if err != nil {
					return err
				}
				view := interviewdto.QuestionView{
					ID:               q.ID,
					Prompt:           q.Prompt,
					Category:         q.Category,
					Difficulty:       q.Difficulty,
					Context:          q.Context,
					Framework:        q.Framework,
					EstimatedMinutes: q.EstimatedMinutes,
					Tags:             q.Tags,
					FollowUps:        q.FollowUps,
				}
				printQuestion(cmd.OutOrStdout(), view)
				if !start {
					return nil
				}
				out, err := app.InterviewCLI.Start(cmd.Context(), interviewdto.StartInput{
					QuestionCount: 1,
					Questions:     []interviewdto.QuestionView{view},
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started session %s\n", out.Session.ID)
				return nil
			})
		},
	}
	questionCmd.Flags().StringVar(&category, "category", "", "question category")
	questionCmd.Flags().StringVar(&difficulty, "difficulty", "", "question difficulty")
	questionCmd.Flags().StringVar(&topic, "topic", "", "topic hint")
	questionCmd.Flags().BoolVar(&start, "start", false, "start a one-question session with it")

	var file string
	analyzeCmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze an answer to the current question",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				status, err := app.InterviewCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				content := ""
				if len(args) == 0 && file == "" && status.CurrentResponse != nil {
					content = status.CurrentResponse.Content
				} else if content, err = answerContent(cmd.InOrStdin(), args, file); err != nil {
					return err
				}
				q := status.Current
				analysis, err := app.CoachCLI.Analyze(cmd.Context(), coachdto.AnalyzeInput{
					QuestionID: q.ID,
					Prompt:     q.Prompt,
					Category:   q.Category,
					Framework:  q.Framework,
					Answer:     content,
				})
				if err != nil {
					return err
				}
				printAnalysis(cmd.OutOrStdout(), analysis)
				return nil
			})
		},
	}
	analyzeCmd.Flags().StringVar(&file, "file", "", "read the answer from a file (- for stdin)")

	coach.AddCommand(questionCmd, analyzeCmd)
	return coach
}

func newConfigCmd(dataDir *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default pmdrill.toml into the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveDataDir(*dataDir)
			if err != nil {
				return err
			}
			path, err := config.WriteDefault(dir, force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func printQuestion(w io.Writer, q interviewdto.QuestionView) {
	_, _ = fmt.Fprintf(w, "%s [%s/%s] %s\n", q.ID, q.Category, q.Difficulty, minutesLabel(q.EstimatedMinutes))
	_, _ = fmt.Fprintf(w, "  %s\n", q.Prompt)
	if q.Context != "" {
		_, _ = fmt.Fprintf(w, "  context: %s\n", q.Context)
	}
	if len(q.Framework) > 0 {
		_, _ = fmt.Fprintf(w, "  framework: %s\n", strings.Join(q.Framework, ", "))
	}
	for _, f := range q.FollowUps {
		_, _ = fmt.Fprintf(w, "  follow-up: %s\n", f)
	}
}

func printStatus(w io.Writer, out interviewdto.StatusOutput) {
	s := out.Session
	_, _ = fmt.Fprintf(w, "session %s %s  question %d/%d  %.0f%% answered\n", s.ID, s.Status, s.CurrentIndex+1, len(s.Questions), out.CompletionPercent)
	_, _ = fmt.Fprintf(w, "elapsed %s  on question %s  remaining %s\n", clock(out.Timer.Elapsed), clock(out.Timer.QuestionElapsed), clock(out.Timer.Remaining))
	var grid strings.Builder
	for i, state := range out.QuestionStates {
		if i > 0 {
			grid.WriteByte(' ')
		}
		switch state {
		case "answered":
			grid.WriteString("[x]")
		case "current":
			grid.WriteString("[>]")
		default:
			grid.WriteString("[ ]")
		}
	}
	_, _ = fmt.Fprintln(w, grid.String())
	printQuestion(w, out.Current)
	if out.CurrentResponse != nil {
		_, _ = fmt.Fprintf(w, "  answer (%ds): %s\n", out.CurrentResponse.DurationSec, strings.TrimSpace(out.CurrentResponse.Content))
	}
}

func printAnalysis(w io.Writer, a coachdto.AnalysisOutput) {
	suffix := ""
	if a.Cached {
		suffix = " (cached)"
	}
	_, _ = fmt.Fprintf(w, "score %.1f/%d%s\n", a.Score, a.MaxScore, suffix)
	for _, group := range []struct {
		label string
		items []string
	}{
		{"strengths", a.Strengths},
		{"weaknesses", a.Weaknesses},
		{"suggestions", a.Suggestions},
	} {
		if len(group.items) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:\n", group.label)
		for _, item := range group.items {
			_, _ = fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}

func minutesLabel(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return fmt.Sprintf("%dm", *minutes)
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
