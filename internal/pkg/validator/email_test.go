package validator

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "user@acme.com", false},
		{"No At Sign", "not-an-email", true},
		{"Empty Domain", "user@", true},
		{"No TLD", "user@localhost", true},
		{"Empty Local Part", "@acme.com", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("Email(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}
