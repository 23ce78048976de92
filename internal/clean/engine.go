package clean

import (
	"errors"
	"time"

	"github.com/zeebo/xxh3"

	"salesetl/internal/schema"
	"salesetl/pkg/records"
)

// Structural failures. These abort the dataset pass; they are never used
// for per-record data-quality discards.
var (
	// ErrEmptyInput is returned when a pass receives zero raw records.
	ErrEmptyInput = errors.New("clean: empty input")

	// ErrNoCustomers is returned when the orders pass is started without a
	// completed, non-empty customer clean set. That is a sequencing bug in
	// the caller, not a data-quality condition.
	ErrNoCustomers = errors.New("clean: customer clean set absent or empty")
)

// Options is the cleaning configuration recognized by the engine.
// Zero values select the documented defaults.
type Options struct {
	// MaxOrderAgeYears rejects orders older than this many years (default 10).
	MaxOrderAgeYears int

	// MinTotalAmount is the inclusive lower bound for order totals
	// (default 1 cent).
	MinTotalAmount schema.Cents

	// EmailValidation toggles the strict address grammar; when false only
	// the non-empty check applies.
	EmailValidation bool

	// DateLayouts lists extra accepted date layouts beyond ISO 2006-01-02.
	DateLayouts []string

	// Now fixes the engine clock; zero means time.Now(). A fixed clock makes
	// a pass a pure function of (input, options).
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxOrderAgeYears == 0 {
		o.MaxOrderAgeYears = 10
	}
	if o.MinTotalAmount == 0 {
		o.MinTotalAmount = 1
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Engine runs the cleaning passes. It is pure: the only outputs are the
// clean set and the report, and repeated runs over the same input yield
// identical results.
type Engine struct {
	opts   Options
	today  time.Time // date-truncated clock
	oldest time.Time // inclusive lower bound for order dates
}

// NewEngine resolves defaults and captures the clock once.
func NewEngine(opts Options) *Engine {
	opts = opts.withDefaults()
	y, m, d := opts.Now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &Engine{
		opts:   opts,
		today:  today,
		oldest: today.AddDate(-opts.MaxOrderAgeYears, 0, 0),
	}
}

// IDSet is a read-only set of accepted identifiers shared between the
// customers pass output and the orders cross-reference check.
type IDSet struct {
	m map[int64]struct{}
}

// CustomerIDs builds the ID set of a completed customer clean set.
func CustomerIDs(cs []schema.Customer) *IDSet {
	s := &IDSet{m: make(map[int64]struct{}, len(cs))}
	for _, c := range cs {
		s.m[c.ID] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s *IDSet) Has(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// CleanCustomers applies the customer rule set over the raw batch in input
// order. Acceptance is all-or-nothing per record; the first failing rule
// tags the discard. Across the batch, the first occurrence of an id or
// email wins and later duplicates are discarded.
func (e *Engine) CleanCustomers(in []records.Record) ([]schema.Customer, *Report, error) {
	if len(in) == 0 {
		return nil, nil, ErrEmptyInput
	}

	rules := customerRules()
	rep := newReport("customers")
	out := make([]schema.Customer, 0, len(in))
	seenIDs := make(map[int64]struct{}, len(in))
	seenEmails := make(map[uint64]struct{}, len(in))

	for _, rec := range in {
		var c schema.Customer
		if reason, ok := applyCustomerRules(e, rules, rec, &c); !ok {
			rep.discard(reason)
			continue
		}
		if _, dup := seenIDs[c.ID]; dup {
			rep.discard(ReasonDuplicateID)
			continue
		}
		emailKey := xxh3.HashString(c.Email)
		if _, dup := seenEmails[emailKey]; dup {
			rep.discard(ReasonDuplicateEmail)
			continue
		}
		seenIDs[c.ID] = struct{}{}
		seenEmails[emailKey] = struct{}{}
		out = append(out, c)
		rep.accept()
	}
	return out, rep, nil
}

// CleanOrders applies the order rule set over the raw batch in input
// order. refs must be the ID set of the *final* customer clean set from
// the same run; the pass fails structurally when it is absent or empty.
// Duplicate order ids are discarded first-seen-wins, checked right after
// the id rule so a duplicate outranks any later rule failure.
func (e *Engine) CleanOrders(in []records.Record, refs *IDSet) ([]schema.Order, *Report, error) {
	if len(in) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if refs.Len() == 0 {
		return nil, nil, ErrNoCustomers
	}

	rules := orderRules()
	rep := newReport("orders")
	out := make([]schema.Order, 0, len(in))
	seenIDs := make(map[int64]struct{}, len(in))

	for _, rec := range in {
		var o schema.Order
		reason, ok := rules[0].apply(e, refs, rec, &o)
		if !ok {
			rep.discard(reason)
			continue
		}
		if _, dup := seenIDs[o.ID]; dup {
			rep.discard(ReasonDuplicateID)
			continue
		}
		for _, r := range rules[1:] {
			if reason, ok = r.apply(e, refs, rec, &o); !ok {
				break
			}
		}
		if !ok {
			rep.discard(reason)
			continue
		}
		seenIDs[o.ID] = struct{}{}
		out = append(out, o)
		rep.accept()
	}
	return out, rep, nil
}

func applyCustomerRules(e *Engine, rules []customerRule, rec records.Record, out *schema.Customer) (string, bool) {
	for _, r := range rules {
		if reason, ok := r.apply(e, rec, out); !ok {
			return reason, false
		}
	}
	return "", true
}
