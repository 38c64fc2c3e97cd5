package validators

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailSyntaxValid(t *testing.T) {
	assert.True(t, IsEmailSyntaxValid("ana@studio.com.br"))
	assert.False(t, IsEmailSyntaxValid("ana"))
	assert.False(t, IsEmailSyntaxValid("ana@localhost"))
	assert.False(t, IsEmailSyntaxValid("Ana <ana@studio.com>"))
}

func TestIsEmailDomainValid(t *testing.T) {
	origMX, origIP := lookupMX, lookupIP
	t.Cleanup(func() { lookupMX, lookupIP = origMX, origIP })

	lookupMX = func(domain string) ([]*net.MX, error) {
		if domain == "mail.com" {
			return []*net.MX{{Host: "mx.mail.com"}}, nil
		}
		return nil, errors.New("no mx")
	}
	lookupIP = func(domain string) ([]net.IP, error) {
		if domain == "web.com" {
			return []net.IP{net.ParseIP("10.0.0.1")}, nil
		}
		return nil, errors.New("no host")
	}

	assert.True(t, IsEmailDomainValid("a@mail.com"))
	assert.True(t, IsEmailDomainValid("a@web.com"))
	assert.False(t, IsEmailDomainValid("a@nowhere.invalid"))
	assert.False(t, IsEmailDomainValid("a@"))
}

func TestIsPhoneValid(t *testing.T) {
	assert.True(t, IsPhoneValid(""))
	assert.True(t, IsPhoneValid("(11) 98888-7777"))
	assert.True(t, IsPhoneValid("+55 11 98888-7777"))
	assert.False(t, IsPhoneValid("123"))
}
