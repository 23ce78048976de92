package schema

// Column describes one destination column for DDL generation.
type Column struct {
	Name       string
	Kind       string // "int", "text", "date", "money"
	Required   bool
	Unique     bool
	PrimaryKey bool

	// References names another table whose "id" column this one points at.
	// The constraint is informational for DDL only; referential integrity is
	// enforced in memory by the cleaning engine before anything is loaded.
	References string
}

// TableDef is a backend-agnostic table contract consumed by the per-backend
// DDL bootstrappers.
type TableDef struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in definition order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CustomersTable returns the contract for the cleaned customers table.
func CustomersTable(name string) TableDef {
	return TableDef{
		Name: name,
		Columns: []Column{
			{Name: "id", Kind: "int", Required: true, PrimaryKey: true},
			{Name: "name", Kind: "text", Required: true},
			{Name: "email", Kind: "text", Required: true, Unique: true},
			{Name: "join_date", Kind: "date", Required: true},
		},
	}
}

// OrdersTable returns the contract for the cleaned orders table.
// customersTable is the live customers table name for the FK reference.
func OrdersTable(name, customersTable string) TableDef {
	return TableDef{
		Name: name,
		Columns: []Column{
			{Name: "id", Kind: "int", Required: true, PrimaryKey: true},
			{Name: "customer_id", Kind: "int", Required: true, References: customersTable},
			{Name: "order_date", Kind: "date", Required: true},
			{Name: "total_amount", Kind: "money", Required: true},
		},
	}
}
