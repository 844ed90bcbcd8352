package payment

// MinAmountMinor is the smallest chargeable amount, 1.00 in major units.
const MinAmountMinor = 100

// ToMinorUnits converts a major-unit amount to minor units by multiplying in
// float64 and truncating, the same conversion the storefront has always
// charged with. Amounts without an exact binary form can land one minor unit
// low (19.99 becomes 1998).
func ToMinorUnits(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	minor := int64(amount * 100)
	if minor < MinAmountMinor {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}
