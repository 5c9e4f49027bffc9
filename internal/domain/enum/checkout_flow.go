package enum

// CheckoutFlow selects the checkout variant: billout closes the order without
// deducting stock, proceed deducts stock after the sale is saved.
type CheckoutFlow string

const (
	FlowBillOut CheckoutFlow = "billout"
	FlowProceed CheckoutFlow = "proceed"
)

// Valid reports whether the flow is a known checkout variant.
func (f CheckoutFlow) Valid() bool {
	return f == FlowBillOut || f == FlowProceed
}

func (f CheckoutFlow) String() string {
	return string(f)
}
