package validators

import (
	"net"
	"net/mail"
	"regexp"
	"strings"
)

// resolvers; replaced in tests
var (
	lookupMX = net.LookupMX
	lookupIP = net.LookupIP
)

var phoneDigits = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// IsEmailSyntaxValid accepts a bare address (no display name).
func IsEmailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := lookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := lookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// IsPhoneValid checks a phone number after stripping the usual punctuation.
// Empty is valid; phone is optional everywhere.
func IsPhoneValid(phone string) bool {
	if phone == "" {
		return true
	}
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(phone)
	return phoneDigits.MatchString(clean)
}
