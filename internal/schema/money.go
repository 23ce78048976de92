package schema

import "strconv"

// Cents is a monetary amount in integer cents. Amounts are kept as
// integers end to end; the decimal string form is produced only at the
// storage boundary.
type Cents int64

// String renders the amount as a fixed-point decimal with two fractional
// digits, e.g. Cents(1) -> "0.01", Cents(12345) -> "123.45".
func (c Cents) String() string {
	n := int64(c)
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n/100, 10) + "." + pad2(n%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
