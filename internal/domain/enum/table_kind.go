package enum

// TableKind filters the table listing endpoint.
type TableKind string

const (
	TableKindAvailable TableKind = "available"
	TableKindReserved  TableKind = "reserved"
	TableKindAll       TableKind = "all"
)

// ParseTableKind normalizes a query value into a TableKind, falling back to
// TableKindAll for unknown input the way the legacy endpoint did.
func ParseTableKind(s string) TableKind {
	switch TableKind(s) {
	case TableKindAvailable:
		return TableKindAvailable
	case TableKindReserved:
		return TableKindReserved
	}
	return TableKindAll
}

func (k TableKind) String() string {
	return string(k)
}
