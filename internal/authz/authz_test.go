package authz

import "testing"

func TestEnforce(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		role, resource, action string
		want                   bool
	}{
		{"staff", "patients", "read", true},
		{"staff", "patients", "write", false},
		{"staff", "export", "write", true},
		{"staff", "users", "write", false},
		{"admin", "patients", "read", true}, // inherited from staff
		{"admin", "patients", "write", true},
		{"admin", "users", "write", true},
		{"viewer", "patients", "read", false}, // unknown role
	}
	for _, tc := range cases {
		got, err := e.Enforce(tc.role, tc.resource, tc.action)
		if err != nil {
			t.Fatalf("Enforce(%s, %s, %s): %v", tc.role, tc.resource, tc.action, err)
		}
		if got != tc.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tc.role, tc.resource, tc.action, got, tc.want)
		}
	}
}
