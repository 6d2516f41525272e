package entities

import (
	"regexp"
	"strings"
)

// MainlandCountryCode is prepended when handing numbers to the SMS gateway.
const MainlandCountryCode = "+86"

var mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidPhone reports whether phone is an 11-digit mainland mobile number.
func ValidPhone(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// NormalizeE164 returns phone with a leading country code.
func NormalizeE164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return MainlandCountryCode + phone
}

// MaskPhone hides the middle digits for logging.
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return "****"
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}
