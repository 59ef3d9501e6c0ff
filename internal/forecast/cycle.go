package forecast

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Source abstracts the upstream forecast API (e.g. met.no locationforecast).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawStep, error)
}

// Publisher is the outbound message-bus sink. Topics are relative to the
// publisher's base prefix; payloads are serialized by the publisher. All
// readings go out retained.
type Publisher interface {
	Publish(topic string, payload any, retained bool) error
}

// ErrorKind classifies a cycle failure.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindFetch
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	default:
		return "none"
	}
}

// Outcome is the explicit result of one cycle. A failed cycle stops at the
// failing stage; Published still lists whatever went out before it.
type Outcome struct {
	Published []string
	Kind      ErrorKind
	Err       error
}

// Failed reports whether the cycle aborted.
func (o Outcome) Failed() bool { return o.Err != nil }

func failure(kind ErrorKind, published []string, err error) Outcome {
	return Outcome{Published: published, Kind: kind, Err: err}
}

// Cycle derives readings from one upstream fetch and hands them to the
// publisher. It holds no state across runs beyond its configuration; each
// run owns its series and readings exclusively.
type Cycle struct {
	source  Source
	pub     Publisher
	vars    VariableMap
	horizon int // forecast offsets 1..horizon hours, plus offset 0

	now   func() time.Time
	local *time.Location
}

// NewCycle creates a cycle over the given collaborators. horizon is the
// number of hourly forecast offsets beyond "now".
func NewCycle(source Source, pub Publisher, vars VariableMap, horizon int) *Cycle {
	return &Cycle{
		source:  source,
		pub:     pub,
		vars:    vars,
		horizon: horizon,
		now:     time.Now,
		local:   time.Local,
	}
}

// WithClock overrides the cycle's clock and local timezone. Used by tests;
// the timezone also governs the today/tomorrow day boundary.
func (c *Cycle) WithClock(now func() time.Time, local *time.Location) *Cycle {
	c.now = now
	c.local = local
	return c
}

// Run executes one full cycle: fetch, build the series, interpolate the
// hourly targets, aggregate the daily windows, publish every reading that
// derived. Fetch and parse errors abort the cycle; derivation gaps skip
// only their own target or window; publish errors are logged and never
// abort the remaining publishes.
func (c *Cycle) Run(ctx context.Context) Outcome {
	steps, err := c.source.Fetch(ctx)
	if err != nil {
		return failure(KindFetch, nil, fmt.Errorf("fetch from %s: %w", c.source.Name(), err))
	}

	series, err := NewSeries(steps)
	if err != nil {
		return failure(KindParse, nil, fmt.Errorf("build series: %w", err))
	}

	now := c.now().UTC()
	var published []string

	for i := 0; i <= c.horizon; i++ {
		target := now.Add(time.Duration(i) * time.Hour)
		reading, ok := Interpolate(series, target, c.vars)
		if !ok {
			continue
		}

		topic := "current"
		if i > 0 {
			topic = fmt.Sprintf("forecast/%dh", i)
		}
		published = c.publish(published, topic, reading)
	}

	// Day boundaries in the process's local timezone, even though the
	// series holds UTC instants.
	nowLocal := now.In(c.local)
	endOfDay := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, c.local).AddDate(0, 0, 1)

	windows := []struct {
		start, end time.Time
		title      string
	}{
		{now, endOfDay, "today"},
		{endOfDay, endOfDay.AddDate(0, 0, 1), "tomorrow"},
	}
	for _, w := range windows {
		reading, ok := Aggregate(series, w.start, w.end, w.title, c.vars)
		if !ok {
			continue
		}
		published = c.publish(published, "forecast/"+w.title, reading)
	}

	return Outcome{Published: published}
}

func (c *Cycle) publish(published []string, topic string, reading Reading) []string {
	if err := c.pub.Publish(topic, reading, true); err != nil {
		log.Printf("ERROR: publish %s failed: %v", topic, err)
		return published
	}
	return append(published, topic)
}
