package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"owner", RoleOwner, false},
		{"editor", RoleEditor, false},
		{"staff", RoleStaff, false},
		{"OWNER", RoleOwner, false},
		{"Editor", RoleEditor, false},
		{"", "", true},
		{"admin", "", true},
		{"bogus", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRole(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRole) {
					t.Errorf("ParseRole(%q) err = %v, want ErrInvalidRole", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSponsorMember_Validate(t *testing.T) {
	m := &SponsorMember{ID: "m1", SponsorID: "s1", UserID: "u1", Role: RoleOwner}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	missingSponsor := &SponsorMember{ID: "m1", UserID: "u1", Role: RoleOwner}
	if err := missingSponsor.Validate(); err == nil {
		t.Error("Validate should fail without sponsor id")
	}

	badRole := &SponsorMember{ID: "m1", SponsorID: "s1", UserID: "u1", Role: "admin"}
	if err := badRole.Validate(); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Validate err = %v, want ErrInvalidRole", err)
	}
}
