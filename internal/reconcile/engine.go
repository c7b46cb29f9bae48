// Package reconcile merges a statute with the amendment operations of a
// dictamen into an annotated view where every article carries its change
// status and, when amended, both its current and proposed content.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/dictamen/internal/model"
)

// Options configures an Engine.
type Options struct {
	Policy    TargetPolicy
	Overrides []ChapterOverride
	Logger    *zap.Logger
}

// Engine reconciles statutes against operation lists. An Engine holds no
// per-run state and may be shared by concurrent callers.
type Engine struct {
	policy    TargetPolicy
	overrides []ChapterOverride
	log       *zap.Logger
}

// New creates an Engine. A nil Logger disables logging.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		policy:    opts.Policy,
		overrides: append([]ChapterOverride(nil), opts.Overrides...),
		log:       log.Named("reconcile"),
	}
}

// Reconcile applies ops, in order, to st. It fails only when the inputs are
// structurally malformed; every other problem is reported in the view's
// diagnostics and the affected operation is skipped.
func (e *Engine) Reconcile(st *model.Statute, ops []model.Operation) (*model.View, error) {
	if st == nil {
		return nil, &InputError{Path: "ley", err: errors.New("statute is required")}
	}
	if err := st.Validate(); err != nil {
		return nil, &InputError{Path: "ley", err: err}
	}
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, &InputError{Path: fmt.Sprintf("operaciones[%d]", i), err: err}
		}
	}

	start := time.Now()
	m := newMerger(newIndex(st), Resolver{Policy: e.policy}, e.overrides, e.log)
	for i, op := range ops {
		m.apply(i, op)
	}
	m.close()
	v := assemble(st, m)

	e.log.Info("reconciled statute",
		zap.String("statute", st.Number),
		zap.Int("articles", st.ArticleCount()),
		zap.Int("operations", len(ops)),
		zap.Int("substituted", v.Summary.Substituted),
		zap.Int("incorporated", v.Summary.Incorporated),
		zap.Int("repealed", v.Summary.Repealed),
		zap.Int("diagnostics", len(v.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)))
	for _, d := range v.Diagnostics {
		e.log.Warn("operation needs review",
			zap.String("kind", string(d.Kind)),
			zap.Int("operation", d.Operation),
			zap.String("source", d.Source),
			zap.String("target", d.Target),
			zap.String("message", d.Message))
	}
	return v, nil
}

// Reconcile runs a default Engine: explicit target policy, no overrides, no logging.
func Reconcile(st *model.Statute, ops []model.Operation) (*model.View, error) {
	return New(Options{}).Reconcile(st, ops)
}
