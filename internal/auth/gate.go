package auth

import (
	"time"

	"media-gate/internal/domain/media"
)

// AccessDecision is the three-outcome result of the access gate:
// allow-raw (Allowed), allow-obfuscated-preview (MustObfuscate), or
// deny-entirely (neither). The obfuscated-preview tier exists only for
// adult content; private non-adult content is binary allow/deny.
type AccessDecision struct {
	Allowed       bool
	MustObfuscate bool
}

var (
	allowRaw        = AccessDecision{Allowed: true}
	allowObfuscated = AccessDecision{MustObfuscate: true}
	denyEntirely    = AccessDecision{}
)

const adultAge = 18

// Decide gates access to one media item for one caller. It is a pure
// function of the descriptor and the (possibly absent) identity; decisions
// are never cached across requests since identity may change per call.
//
// The adult check runs before the ownership check: an identity failing the
// adult gate gets the obfuscated preview even for private content, while
// deny-entirely is reserved for callers who clear the adult gate but fail
// ownership of private content.
func Decide(content media.Descriptor, identity *media.Identity, now time.Time) AccessDecision {
	if !content.IsAdult && content.IsPublic {
		return allowRaw
	}

	if identity == nil {
		if content.IsAdult {
			return allowObfuscated
		}
		return denyEntirely
	}

	if content.IsAdult {
		if !identity.Verified || !IsEighteenPlus(identity.DateOfBirth, now) {
			return allowObfuscated
		}
	}

	if !content.IsPublic && identity.ID != content.OwnerID {
		return denyEntirely
	}

	return allowRaw
}

// IsEighteenPlus computes age as the calendar year difference, adjusted
// down by one when the current month/day precedes the birth month/day.
func IsEighteenPlus(dob, now time.Time) bool {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age >= adultAge
}
