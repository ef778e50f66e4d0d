package utils

// SafeDiv performs safe division avoiding division by zero
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// CalculatePercentageChange calculates percentage change between two values
func CalculatePercentageChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return ((newValue - oldValue) / oldValue) * 100
}

// ApplySlippage applies slippage tolerance to a value
func ApplySlippage(amount float64, slippageBP int, increase bool) float64 {
	slippagePercent := float64(slippageBP) / 10000 // Convert basis points to decimal

	if increase {
		return amount * (1 + slippagePercent)
	}
	return amount * (1 - slippagePercent)
}
