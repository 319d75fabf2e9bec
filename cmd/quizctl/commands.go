package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/chapter-quiz-bot/internal/app"
	"github.com/aliskhannn/chapter-quiz-bot/internal/delivery/console"
	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/chapter-quiz-bot/internal/service"
)

var errUsage = errors.New("usage")

type cli struct {
	services *app.Services
	logger   *zap.Logger
	out      io.Writer
	in       io.Reader
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return c.list(ctx, args)
	case "add":
		return c.add(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	case "import":
		return c.importFile(ctx, args)
	case "config":
		return c.config(ctx, args)
	case "drift":
		return c.drift(ctx)
	case "take":
		return c.take(ctx, args)
	default:
		return errUsage
	}
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	chapter := fs.String("chapter", "", "Show only questions eligible under this chapter")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := c.services.Bank.Load(ctx); err != nil {
		return err
	}

	type listed struct {
		n   int
		rec entities.QuestionRecord
	}
	var rows []listed
	for i, rec := range c.services.Bank.Records() {
		if *chapter != "" && !c.services.Selector.Eligible(rec, *chapter) {
			continue
		}
		rows = append(rows, listed{n: i + 1, rec: rec})
	}
	entities.SortByChapter(rows, func(l listed) string { return l.rec.Chapter })

	shown := 0
	for _, row := range rows {
		rec := row.rec
		c.printf("%3d. [%s] %s\n", row.n, displayChapter(rec.Chapter), rec.Question)
		c.printf("     %s: %s\n", rec.Criterion.Kind, strings.Join(rec.Criterion.Terms, ", "))
		if rec.Explanation != "" {
			c.printf("     explanation: %s\n", rec.Explanation)
		}
		shown++
	}
	c.printf("%d of %d questions\n", shown, c.services.Bank.Len())
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	question := fs.String("question", "", "Question text (required)")
	chapter := fs.String("chapter", "", "Chapter label, e.g. 6.6")
	explanation := fs.String("explanation", "", "Explanation shown after a wrong answer")
	keywords := fs.String("keywords", "", "Comma-separated keywords, matched ignoring case")
	mustInclude := fs.String("must-include", "", "Comma-separated exact phrases")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	raw := entities.RawRecord{Question: question, Chapter: chapter, Explanation: explanation}
	if *keywords != "" {
		raw.Keywords = entities.SplitTerms(*keywords)
	}
	if *mustInclude != "" {
		raw.MustInclude = entities.SplitTerms(*mustInclude)
	}
	rec, err := raw.Normalize()
	if err != nil {
		return err
	}

	if err := c.services.Bank.Load(ctx); err != nil {
		return err
	}
	if err := c.services.Bank.Add(rec); err != nil {
		return err
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	c.printf("added question %d\n", c.services.Bank.Len())
	return nil
}

func (c *cli) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	n := fs.Int("n", 0, "Question number as shown by list")
	field := fs.String("field", "", "question, chapter, explanation, keywords or must_include")
	value := fs.String("value", "", "New value; term fields are comma-separated")
	if err := fs.Parse(args); err != nil || *n == 0 || *field == "" {
		return errUsage
	}

	if err := c.services.Bank.Load(ctx); err != nil {
		return err
	}
	if err := c.services.Bank.UpdateField(*n-1, *field, *value); err != nil {
		return err
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	c.printf("updated question %d\n", *n)
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	n := fs.Int("n", 0, "Question number as shown by list")
	if err := fs.Parse(args); err != nil || *n == 0 {
		return errUsage
	}

	if err := c.services.Bank.Load(ctx); err != nil {
		return err
	}
	if err := c.services.Bank.Delete(*n - 1); err != nil {
		return err
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	c.printf("deleted question %d\n", *n)
	return nil
}

func (c *cli) importFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "Path to an .xlsx or .csv file")
	sheet := fs.String("sheet", "", "Sheet name for .xlsx files (default: first sheet)")
	replace := fs.Bool("replace", false, "Replace the bank instead of appending")
	if err := fs.Parse(args); err != nil || *file == "" {
		return errUsage
	}

	var src service.ImportSource = service.FileSource{Path: *file, Sheet: *sheet}
	records, err := src.Records(ctx)
	if err != nil {
		return err
	}

	if err := c.services.Bank.Load(ctx); err != nil {
		return err
	}
	if err := c.services.Bank.Import(records, *replace); err != nil {
		return err
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	c.printf("imported %d questions, bank now has %d\n", len(records), c.services.Bank.Len())
	return nil
}

func (c *cli) config(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "show":
		cfg, found, err := c.services.Config.Load(ctx)
		if err != nil {
			return err
		}
		if !found {
			c.printf("no quiz config saved, using defaults\n")
		}
		c.printf("chapter: %s\nquestions: %d\n", displayChapter(cfg.Chapter), cfg.NumQuestions)
		return nil

	case "set":
		fs := flag.NewFlagSet("config set", flag.ContinueOnError)
		chapter := fs.String("chapter", "", "Chapter ceiling, empty for all chapters")
		count := fs.Int("count", entities.DefaultNumQuestions, "Number of questions per quiz")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		if err := c.services.Bank.Load(ctx); err != nil {
			return err
		}
		cfg, err := c.services.Config.Save(ctx, *chapter, *count, c.services.Bank.Records())
		if err != nil {
			return err
		}
		if cfg.NumQuestions != *count {
			c.printf("question count adjusted from %d to %d\n", *count, cfg.NumQuestions)
		}
		c.printf("saved: chapter %s, %d questions\n", displayChapter(cfg.Chapter), cfg.NumQuestions)
		return nil

	case "history":
		fs := flag.NewFlagSet("config history", flag.ContinueOnError)
		limit := fs.Int("limit", 10, "Number of entries to show")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		history, err := c.services.Config.History(ctx, *limit)
		if err != nil {
			return err
		}
		for _, cfg := range history {
			c.printf("chapter %s, %d questions\n", displayChapter(cfg.Chapter), cfg.NumQuestions)
		}
		return nil

	case "reset":
		if err := c.services.Config.Reset(ctx); err != nil {
			return err
		}
		c.printf("quiz config reset to defaults\n")
		return nil

	default:
		return errUsage
	}
}

func (c *cli) drift(ctx context.Context) error {
	drifted, err := c.services.Bank.CheckStoreDrift(ctx)
	if err != nil {
		return err
	}
	if drifted {
		c.printf("the question bank was changed since the last save by this tool\n")
		return nil
	}
	c.printf("no drift\n")
	return nil
}

func (c *cli) take(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("take", flag.ContinueOnError)
	name := fs.String("name", "", "Your name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	p := console.NewPresenter(c.in, c.out)
	taker := *name
	if taker == "" {
		var err error
		if taker, err = p.AskName(); err != nil {
			return err
		}
	}

	attempt, err := c.services.Quiz.StartAttempt(ctx, taker)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			c.printf("no questions available for today's chapter\n")
			return nil
		}
		return err
	}

	if short := attempt.Shortfall(); short > 0 {
		c.printf("only %d questions available, %d fewer than planned\n", attempt.Tracker.Len(), short)
	}

	progress, err := c.services.Quiz.RunAttempt(ctx, attempt, p)
	if err != nil {
		return err
	}
	p.RenderResult("Confirmed", progress)
	p.RenderResult("Final score", c.services.Quiz.Submit(attempt))
	return nil
}

func (c *cli) save(ctx context.Context) error {
	res, err := c.services.Bank.Save(ctx)
	if err != nil {
		return err
	}
	if res.Drifted {
		c.printf("warning: the bank had been changed elsewhere; those changes were overwritten\n")
	}
	return nil
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func displayChapter(ch string) string {
	if ch == "" {
		return "-"
	}
	return ch
}
