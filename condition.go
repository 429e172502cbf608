package persist

import "time"

// RuleContext carries the inputs available to a strategy condition.
type RuleContext struct {
	Snapshot Snapshot
	StoreID  string
	Key      string
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) keyLabel() string {
	if ctx.Key != "" {
		return ctx.Key
	}
	if ctx.StoreID != "" {
		return ctx.StoreID
	}
	return "unknown"
}

// Evaluator executes condition expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable condition program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures condition compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// ProgramCache stores compiled condition programs keyed by expression
// strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache on the plugin; the default
// condition evaluator reuses it for compiled programs.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *pluginConfig) {
		cfg.programCache = cache
	}
}

// WithEvaluator configures the condition engine used for strategy
// conditions. Defaults to the expr engine.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *pluginConfig) {
		cfg.evaluator = evaluator
	}
}
