package clean

import (
	"fmt"
	"sort"
	"strings"
)

// Report summarizes one dataset cleaning pass: how many raw rows were
// attempted, how many were accepted into the clean set, and a histogram
// of discard reasons. Attempted == Accepted + Discarded always holds.
type Report struct {
	Dataset   string
	Attempted int
	Accepted  int
	Discarded int
	Reasons   map[string]int
}

func newReport(dataset string) *Report {
	return &Report{Dataset: dataset, Reasons: map[string]int{}}
}

func (r *Report) accept() {
	r.Attempted++
	r.Accepted++
}

func (r *Report) discard(reason string) {
	r.Attempted++
	r.Discarded++
	r.Reasons[reason]++
}

// String renders a one-line summary suitable for logs, with reasons in
// deterministic (sorted) order.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dataset=%s attempted=%d accepted=%d discarded=%d",
		r.Dataset, r.Attempted, r.Accepted, r.Discarded)
	if len(r.Reasons) > 0 {
		keys := make([]string, 0, len(r.Reasons))
		for k := range r.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" reasons=")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s:%d", k, r.Reasons[k])
		}
	}
	return b.String()
}
