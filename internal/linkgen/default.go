package linkgen

import "mulebuy/internal/model"

// The process-wide default referral code. Set once at startup, before any
// conversion runs; never written concurrently.
var defaultReferralCode = model.BuiltinReferralCode

// DefaultReferralCode returns the referral code substituted when a caller
// passes an empty one.
func DefaultReferralCode() string {
	return defaultReferralCode
}

// SetDefaultReferralCode overrides the process-wide default referral code.
// An empty code restores the built-in default.
func SetDefaultReferralCode(code string) {
	if code == "" {
		code = model.BuiltinReferralCode
	}
	defaultReferralCode = code
}
