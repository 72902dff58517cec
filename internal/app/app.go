package app

import (
	"sync"

	"github.com/dshills/formulary/internal/config"
	"github.com/dshills/formulary/internal/formula"
	"github.com/dshills/formulary/internal/formula/element"
	"github.com/dshills/formulary/internal/formula/parser"
	"github.com/dshills/formulary/internal/formula/validator"
	"github.com/dshills/formulary/internal/logging"
	"github.com/dshills/formulary/internal/script"
	"github.com/dshills/formulary/internal/symbols"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. A missing file
	// yields the defaults.
	ConfigPath string

	// LogLevel overrides the configured logging level when non-empty.
	LogLevel string

	// ReadOnly creates documents in read-only mode.
	ReadOnly bool

	// Logger receives application logs. The process logger is used when nil.
	Logger *logging.Logger

	// LoaderOptions are passed to the configuration loader.
	LoaderOptions []config.LoaderOption

	// Normalize, when set, is applied to formula text before parsing.
	Normalize func(string) string
}

// Application holds the active configuration and what is built from it.
type Application struct {
	mu sync.RWMutex

	opts   Options
	loader *config.Loader
	logger *logging.Logger
	engine *script.Engine

	config  *config.Config
	parser  *parser.Parser
	rules   []validator.Rule
	catalog symbols.Catalog

	closed bool
}

// New loads the configuration and builds the application.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		loader: config.NewLoader(opts.LoaderOptions...),
		logger: opts.Logger,
	}
	if app.logger == nil {
		app.logger = logging.Get()
	}

	st, err := app.load()
	if err != nil {
		return nil, err
	}
	app.engine = st.engine
	app.apply(st)

	app.logger.Debug("application ready: %d rules, %d symbol groups", len(st.rules), len(st.catalog.Groups))
	return app, nil
}

// state is everything derived from one configuration.
type state struct {
	config  *config.Config
	engine  *script.Engine
	parser  *parser.Parser
	rules   []validator.Rule
	catalog symbols.Catalog
}

func (app *Application) load() (*state, error) {
	cfg, err := app.loader.Load(app.opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, &InitError{Component: "config", Err: err}
		}
	}
	app.logger.SetLevel(cfg.LogLevel())

	engine := app.engine
	if engine == nil {
		engine = script.NewEngine(script.WithLogger(app.logger.WithComponent("script")))
	}

	rules, err := cfg.BuildRules(engine)
	if err != nil {
		if app.engine == nil {
			engine.Close()
		}
		return nil, &InitError{Component: "rules", Err: err}
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		if app.engine == nil {
			engine.Close()
		}
		return nil, &InitError{Component: "symbols", Err: err}
	}

	return &state{
		config:  cfg,
		engine:  engine,
		parser:  cfg.NewParser(),
		rules:   rules,
		catalog: catalog,
	}, nil
}

func (app *Application) apply(st *state) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.config = st.config
	app.parser = st.parser
	app.rules = st.rules
	app.catalog = st.catalog
}

// Reload re-reads the configuration file. On error the previous
// configuration stays active.
func (app *Application) Reload() error {
	app.mu.RLock()
	closed := app.closed
	app.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	st, err := app.load()
	if err != nil {
		app.logger.Error("reload failed: %v", err)
		return err
	}
	app.apply(st)
	app.logger.Info("configuration reloaded from %s", app.opts.ConfigPath)
	return nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Parser returns the active parser.
func (app *Application) Parser() *parser.Parser {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.parser
}

// Rules returns a copy of the active validation rules.
func (app *Application) Rules() []validator.Rule {
	app.mu.RLock()
	defer app.mu.RUnlock()
	out := make([]validator.Rule, len(app.rules))
	copy(out, app.rules)
	return out
}

// Catalog returns the active symbol catalog.
func (app *Application) Catalog() symbols.Catalog {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.catalog
}

// NewDocument creates a document using the active parser, rules, catalog
// and auto-validation setting.
func (app *Application) NewDocument(text string) *formula.Document {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return formula.New(
		formula.WithParser(app.parser),
		formula.WithRules(app.rules...),
		formula.WithCatalog(app.catalog),
		formula.WithAutoValidate(app.config.Validation.AutoValidate),
		formula.WithFormula(app.Normalize(text)),
		formula.WithReadOnly(app.opts.ReadOnly),
	)
}

// Report is the outcome of validating one formula.
type Report struct {
	// Input is the text that was validated. Error indexes refer to it.
	Input string `json:"input"`
	// Formula is the normalized formula text.
	Formula  string            `json:"formula"`
	Elements []element.Element `json:"elements"`
	Result   validator.Result  `json:"result"`
}

// Normalize applies Options.Normalize to text.
func (app *Application) Normalize(text string) string {
	if app.opts.Normalize == nil {
		return text
	}
	return app.opts.Normalize(text)
}

// Validate parses and validates text with the active rules.
func (app *Application) Validate(text string) Report {
	app.mu.RLock()
	p, rules := app.parser, app.rules
	app.mu.RUnlock()

	text = app.Normalize(text)
	elems := p.Parse(text)
	return Report{
		Input:    text,
		Formula:  parser.Stringify(elems),
		Elements: elems,
		Result:   validator.Validate(text, elems, rules),
	}
}

// Close releases the script engine.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true
	app.engine.Close()
	return nil
}
