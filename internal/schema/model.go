package schema

import "time"

// DateLayout is the canonical date layout the pipeline accepts without
// extra configuration.
const DateLayout = "2006-01-02"

// Customer is a cleaned customer row destined for the customers table.
type Customer struct {
	ID       int64     `db:"id"`
	Name     string    `db:"name"`
	Email    string    `db:"email"`
	JoinDate time.Time `db:"join_date"`
}

// Order is a cleaned order row destined for the orders table. CustomerID
// always references a Customer accepted in the same run.
type Order struct {
	ID          int64     `db:"id"`
	CustomerID  int64     `db:"customer_id"`
	OrderDate   time.Time `db:"order_date"`
	TotalAmount Cents     `db:"total_amount"`
}

// CustomerColumns is the destination column order for customers.
var CustomerColumns = []string{"id", "name", "email", "join_date"}

// OrderColumns is the destination column order for orders.
var OrderColumns = []string{"id", "customer_id", "order_date", "total_amount"}

// Row returns the customer as a positional row aligned with CustomerColumns.
// Dates render in the canonical layout so every backend stores the same
// literal value.
func (c Customer) Row() []any {
	return []any{c.ID, c.Name, c.Email, c.JoinDate.Format(DateLayout)}
}

// Row returns the order as a positional row aligned with OrderColumns.
// TotalAmount is rendered in its decimal string form so NUMERIC columns
// receive an exact value on every backend.
func (o Order) Row() []any {
	return []any{o.ID, o.CustomerID, o.OrderDate.Format(DateLayout), o.TotalAmount.String()}
}

// CustomerRows converts a clean customer set into loader rows, preserving order.
func CustomerRows(cs []Customer) [][]any {
	rows := make([][]any, len(cs))
	for i, c := range cs {
		rows[i] = c.Row()
	}
	return rows
}

// OrderRows converts a clean order set into loader rows, preserving order.
func OrderRows(orders []Order) [][]any {
	rows := make([][]any, len(orders))
	for i, o := range orders {
		rows[i] = o.Row()
	}
	return rows
}
