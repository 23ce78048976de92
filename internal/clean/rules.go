package clean

import (
	"salesetl/internal/schema"
	"salesetl/pkg/records"
)

// Batch-level discard reason tags. Per-field failures reuse the
// normalization Kind names (see normalize.go).
const (
	ReasonDuplicateID     = "duplicate_id"
	ReasonDuplicateEmail  = "duplicate_email"
	ReasonUnknownCustomer = "unknown_customer_ref"
	ReasonFutureDate      = "future_date"
	ReasonStaleDate       = "stale_date"
)

// customerRule is one step of the customer rule set. Rules run in order
// and short-circuit: the first failing rule's tag becomes the discard
// reason. A passing rule writes its normalized value into out.
type customerRule struct {
	name  string
	apply func(e *Engine, rec records.Record, out *schema.Customer) (string, bool)
}

func customerRules() []customerRule {
	return []customerRule{
		{name: "id", apply: func(e *Engine, rec records.Record, out *schema.Customer) (string, bool) {
			id, f := ID("id", rec["id"])
			if f != nil {
				return string(f.Kind), false
			}
			out.ID = id
			return "", true
		}},
		{name: "email", apply: func(e *Engine, rec records.Record, out *schema.Customer) (string, bool) {
			email, f := Email("email", rec["email"], e.opts.EmailValidation)
			if f != nil {
				return string(f.Kind), false
			}
			out.Email = email
			return "", true
		}},
		{name: "join_date", apply: func(e *Engine, rec records.Record, out *schema.Customer) (string, bool) {
			d, f := Date("join_date", rec["join_date"], e.opts.DateLayouts)
			if f != nil {
				return string(f.Kind), false
			}
			out.JoinDate = d
			return "", true
		}},
		{name: "name", apply: func(e *Engine, rec records.Record, out *schema.Customer) (string, bool) {
			name, f := Text("name", rec["name"])
			if f != nil {
				return string(f.Kind), false
			}
			out.Name = name
			return "", true
		}},
	}
}

// orderRule is one step of the order rule set. refs is the read-only ID
// set of the already-completed customer clean pass.
type orderRule struct {
	name  string
	apply func(e *Engine, refs *IDSet, rec records.Record, out *schema.Order) (string, bool)
}

func orderRules() []orderRule {
	return []orderRule{
		{name: "id", apply: func(e *Engine, refs *IDSet, rec records.Record, out *schema.Order) (string, bool) {
			id, f := ID("id", rec["id"])
			if f != nil {
				return string(f.Kind), false
			}
			out.ID = id
			return "", true
		}},
		{name: "customer_id", apply: func(e *Engine, refs *IDSet, rec records.Record, out *schema.Order) (string, bool) {
			id, f := ID("customer_id", rec["customer_id"])
			if f != nil {
				return string(f.Kind), false
			}
			if !refs.Has(id) {
				return ReasonUnknownCustomer, false
			}
			out.CustomerID = id
			return "", true
		}},
		{name: "order_date", apply: func(e *Engine, refs *IDSet, rec records.Record, out *schema.Order) (string, bool) {
			d, f := Date("order_date", rec["order_date"], e.opts.DateLayouts)
			if f != nil {
				return string(f.Kind), false
			}
			// Both window boundaries are inclusive: an order dated today or
			// exactly max_order_age_years ago is accepted.
			if d.After(e.today) {
				return ReasonFutureDate, false
			}
			if d.Before(e.oldest) {
				return ReasonStaleDate, false
			}
			out.OrderDate = d
			return "", true
		}},
		{name: "total_amount", apply: func(e *Engine, refs *IDSet, rec records.Record, out *schema.Order) (string, bool) {
			amt, f := Money("total_amount", rec["total_amount"])
			if f != nil {
				return string(f.Kind), false
			}
			if amt < e.opts.MinTotalAmount {
				return string(OutOfRange), false
			}
			out.TotalAmount = amt
			return "", true
		}},
	}
}
