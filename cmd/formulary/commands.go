package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/formulary/internal/app"
	"github.com/dshills/formulary/internal/formula/validator"
)

func newFlagSet(env *cmdEnv, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "Usage: formulary %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// formulaArg joins the remaining arguments into one formula.
func formulaArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() == 0 {
		fs.Usage()
		return "", errUsage
	}
	return strings.Join(fs.Args(), " "), nil
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func runParse(env *cmdEnv, args []string) (int, error) {
	fs := newFlagSet(env, "parse", "parse [-pretty] <formula>")
	indent := fs.Bool("pretty", false, "Indent the JSON output")
	if err := parseArgs(fs, args); err != nil {
		return 2, err
	}
	text, err := formulaArg(fs)
	if err != nil {
		return 2, err
	}

	elems := env.app.Parser().Parse(env.app.Normalize(text))
	data, err := json.Marshal(elems)
	if err != nil {
		return 1, fmt.Errorf("encoding elements: %w", err)
	}
	return 0, env.writeJSON(data, *indent)
}

func runFormat(env *cmdEnv, args []string) (int, error) {
	fs := newFlagSet(env, "format", "format <formula>")
	if err := parseArgs(fs, args); err != nil {
		return 2, err
	}
	text, err := formulaArg(fs)
	if err != nil {
		return 2, err
	}

	doc := env.app.NewDocument(text)
	fmt.Fprintln(env.stdout, doc.Formula())
	return 0, nil
}

func runValidate(env *cmdEnv, args []string) (int, error) {
	fs := newFlagSet(env, "validate", "validate [-rules list] [-json] <formula>")
	ruleList := fs.String("rules", "", "Comma separated built-in rules to use instead of the configured rules")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	if err := parseArgs(fs, args); err != nil {
		return 2, err
	}
	text, err := formulaArg(fs)
	if err != nil {
		return 2, err
	}

	report := env.app.Validate(text)
	if *ruleList != "" {
		rules, err := parseRuleList(*ruleList)
		if err != nil {
			return 2, err
		}
		report.Result = validator.Validate(report.Input, report.Elements, rules)
	}

	if *asJSON {
		data, err := reportJSON(report)
		if err != nil {
			return 1, fmt.Errorf("encoding report: %w", err)
		}
		if err := env.writeJSON(data, true); err != nil {
			return 1, err
		}
	} else {
		env.writeReport(report)
	}

	if !report.Result.Valid {
		return 1, nil
	}
	return 0, nil
}

// parseRuleList parses a -rules value such as "bracketsMatch,has-equals".
func parseRuleList(s string) ([]validator.Rule, error) {
	var rules []validator.Rule
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		t, err := validator.ParseRuleType(tag)
		if err != nil {
			return nil, err
		}
		if t == validator.Custom {
			return nil, errors.New("custom rules can only be set in a config file")
		}
		rules = append(rules, validator.Rule{Type: t})
	}
	return rules, nil
}

func runSymbols(env *cmdEnv, args []string) (int, error) {
	fs := newFlagSet(env, "symbols", "symbols [-json]")
	asJSON := fs.Bool("json", false, "Print the catalog as JSON")
	if err := parseArgs(fs, args); err != nil {
		return 2, err
	}

	catalog := env.app.Catalog()
	if *asJSON {
		data, err := catalogJSON(catalog)
		if err != nil {
			return 1, fmt.Errorf("encoding catalog: %w", err)
		}
		return 0, env.writeJSON(data, true)
	}

	for i, g := range catalog.Groups {
		if i > 0 {
			fmt.Fprintln(env.stdout)
		}
		fmt.Fprintln(env.stdout, env.paint(ansiBold, g.Title()))
		for _, it := range g.Items {
			line := "  " + padRight(it.Value, 4)
			if it.InsertValue() != it.Value {
				line += padRight("-> "+it.InsertValue(), 6)
			} else {
				line += padRight("", 6)
			}
			line += padRight(it.ElementKind().String(), 10) + it.Description
			fmt.Fprintln(env.stdout, strings.TrimRight(line, " "))
		}
	}
	return 0, nil
}

func runWatch(env *cmdEnv, args []string) (int, error) {
	fs := newFlagSet(env, "watch", "watch <file>")
	if err := parseArgs(fs, args); err != nil {
		return 2, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2, errUsage
	}
	path := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := env.app.Watch(ctx, path, func(p string, report app.Report, err error) {
		if err != nil {
			fmt.Fprintf(env.stderr, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(env.stdout, "--- %s (%s)\n", filepath.Base(p), time.Now().Format("15:04:05"))
		env.writeReport(report)
	})
	if err != nil {
		return 1, err
	}
	return 0, nil
}
