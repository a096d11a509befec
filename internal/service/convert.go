package service

import (
	"fmt"
	"math/big"
	"strings"
)

// NativeDecimals is the fixed-point scale of the chains the platform runs on.
const NativeDecimals = 18

// ParseDecimalToWei converts a human-readable decimal amount ("0.1") to the
// chain's smallest unit using integer math only. Floating point is never
// involved in on-chain values.
func ParseDecimalToWei(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount: %s", s)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", s, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}
	return n, nil
}

// RoyaltyBasisPoints converts a whole-number royalty percentage (0–50) to
// the contract's basis-point scale. The platform contracts use a
// 1000-denominator scale, so 10%% is 100 on-chain.
func RoyaltyBasisPoints(percentage int) (*big.Int, error) {
	if percentage < 0 || percentage > 50 {
		return nil, fmt.Errorf("royalty percentage %d out of range (0–50)", percentage)
	}
	return big.NewInt(int64(percentage) * 10), nil
}
