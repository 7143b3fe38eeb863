package validator

import (
	"errors"
	"strings"
)

// Email checks the basic user@domain shape. Brand ownership of the domain is
// a separate concern handled by the resolver; this only guards the form
// layer against obviously broken input.
func Email(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return errors.New("invalid email format")
	}

	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return errors.New("invalid email domain")
	}

	return nil
}
