// Package view turns job results into presentation-ready values. Renderers
// consume View values and never look at raw verdict codes.
package view

import (
	"context"
	"time"

	"judgewatch/verdict"
)

// Translator resolves a translation key. It must not fail; unknown keys are
// returned as is.
type Translator interface {
	Lookup(ctx context.Context, key string) string
}

// KeyTranslator returns every key untranslated.
type KeyTranslator struct{}

// Lookup returns key.
func (KeyTranslator) Lookup(_ context.Context, key string) string { return key }

// Batch is one row of the batch table.
type Batch struct {
	// Number is the 1-based batch number.
	Number int          `json:"number"`
	Kind   verdict.Kind `json:"kind"`
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Score  string       `json:"score"`
	Time   string       `json:"time"`
	Memory string       `json:"memory"`
	Extra  string       `json:"extra,omitempty"`

	// Deciding marks the batch that decided the headline verdict.
	Deciding bool `json:"deciding,omitempty"`
}

// View is the presentation of one job result.
type View struct {
	ID       string       `json:"id,omitempty"`
	Task     string       `json:"task,omitempty"`
	Lang     string       `json:"lang,omitempty"`
	When     time.Time    `json:"when,omitempty"`
	Kind     verdict.Kind `json:"kind"`
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Accepted bool         `json:"accepted"`

	Score  string `json:"score"`
	Time   string `json:"time"`
	Memory string `json:"memory"`

	// Summary holds the raw aggregated figures.
	Summary verdict.Summary `json:"summary"`

	Extra   string  `json:"extra,omitempty"`
	Output  string  `json:"output,omitempty"`
	Batches []Batch `json:"batches,omitempty"`
}

// Presenter builds views.
type Presenter struct {
	Translator Translator
}

// New returns a presenter using t for labels. A nil t leaves keys untranslated.
func New(t Translator) *Presenter {
	if t == nil {
		t = KeyTranslator{}
	}
	return &Presenter{Translator: t}
}

// Present builds the view of r. A nil r is presented as a job with nothing
// to show.
func (p *Presenter) Present(ctx context.Context, r *verdict.JobResult) View {
	if r == nil {
		r = &verdict.JobResult{}
	}
	kind := verdict.Classify(r)
	summary := verdict.AggregateResult(r)
	v := View{
		ID:       r.ID,
		Task:     r.TaskName,
		Lang:     r.LangName,
		When:     r.When,
		Kind:     kind,
		Key:      kind.Key(),
		Label:    p.Translator.Lookup(ctx, kind.Key()),
		Accepted: kind.Accepted(),
		Score:    verdict.FormatScore(summary.Score),
		Time:     verdict.FormatDuration(summary.Time),
		Memory:   verdict.FormatMemory(summary.Memory),
		Summary:  summary,
	}

	switch {
	case r.Error:
		// Infrastructure errors are shown as reported.
		v.Extra = r.Extra
		return v
	case r.Compilation != verdict.CompSuccess:
		v.Extra = TruncateMessage(r.Extra)
		return v
	}

	v.Extra = TruncateMessage(r.Extra)
	v.Output = TruncateMessage(r.Output)
	if r.Result != nil {
		return v
	}

	deciding := verdict.FirstOffending(r.Batches)
	for i := range r.Batches {
		v.Batches = append(v.Batches, p.batch(ctx, i, &r.Batches[i], i == deciding))
	}
	return v
}

// PresentAll builds the views of rs in order.
func (p *Presenter) PresentAll(ctx context.Context, rs []verdict.JobResult) []View {
	views := make([]View, 0, len(rs))
	for i := range rs {
		views = append(views, p.Present(ctx, &rs[i]))
	}
	return views
}

func (p *Presenter) batch(ctx context.Context, i int, b *verdict.BatchResult, deciding bool) Batch {
	kind := b.Result.Kind()
	score := b.Score
	return Batch{
		Number:   i + 1,
		Kind:     kind,
		Key:      kind.Key(),
		Label:    p.Translator.Lookup(ctx, kind.Key()),
		Score:    verdict.FormatScore(&score),
		Time:     verdict.FormatDuration(b.Time),
		Memory:   verdict.FormatMemory(b.Memory),
		Extra:    TruncateMessage(b.Extra),
		Deciding: deciding,
	}
}
