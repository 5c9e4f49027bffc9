package enum

// PaymentMethod is the tender type chosen at checkout.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentGcash    PaymentMethod = "gcash"
	PaymentBankCard PaymentMethod = "bankcard"
)

// Valid reports whether the method is one of the supported tender types.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentGcash, PaymentBankCard:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
