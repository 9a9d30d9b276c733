package model

import (
	"strings"
	"testing"
)

// ============================================================================
// CreateRoomRequest Tests
// ============================================================================

func TestCreateRoomRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	capacity := 4
	req := &CreateRoomRequest{
		Name:     "study-hall",
		Capacity: &capacity,
	}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_OmittedCapacityIsValid(t *testing.T) {
	t.Parallel()

	req := &CreateRoomRequest{Name: "study-hall"}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_MissingName(t *testing.T) {
	t.Parallel()

	req := &CreateRoomRequest{}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "name" {
		t.Errorf("expected name error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_WhitespaceName(t *testing.T) {
	t.Parallel()

	req := &CreateRoomRequest{Name: "   "}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "name" {
		t.Errorf("expected name error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_NameTooLong(t *testing.T) {
	t.Parallel()

	req := &CreateRoomRequest{Name: strings.Repeat("a", MaxRoomNameLength+1)}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "name" && strings.Contains(e.Message, "maximum") {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected name length error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_ZeroCapacity(t *testing.T) {
	t.Parallel()

	capacity := 0
	req := &CreateRoomRequest{Name: "study-hall", Capacity: &capacity}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "capacity" {
		t.Errorf("expected capacity error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_NegativeCapacity(t *testing.T) {
	t.Parallel()

	capacity := -3
	req := &CreateRoomRequest{Name: "study-hall", Capacity: &capacity}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "capacity" {
		t.Errorf("expected capacity error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_CapacityTooLarge(t *testing.T) {
	t.Parallel()

	capacity := MaxRoomCapacity + 1
	req := &CreateRoomRequest{Name: "study-hall", Capacity: &capacity}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "capacity" {
		t.Errorf("expected capacity error, got %v", errors)
	}
}

func TestCreateRoomRequest_Validate_MultipleErrors(t *testing.T) {
	t.Parallel()

	capacity := -1
	req := &CreateRoomRequest{Name: "", Capacity: &capacity}

	errors := req.Validate()
	if len(errors) != 2 {
		t.Errorf("expected 2 errors, got %v", errors)
	}
}

// ============================================================================
// MemberRole Tests
// ============================================================================

func TestMemberRole_IsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role  MemberRole
		valid bool
	}{
		{RoleHost, true},
		{RoleMember, true},
		{MemberRole(""), false},
		{MemberRole("host"), false},
		{MemberRole("ADMIN"), false},
	}

	for _, tc := range cases {
		if got := tc.role.IsValid(); got != tc.valid {
			t.Errorf("role %q: expected IsValid %v, got %v", tc.role, tc.valid, got)
		}
	}
}

// ============================================================================
// Room Ownership Tests
// ============================================================================

func TestRoom_HasOwner(t *testing.T) {
	t.Parallel()

	owner := "user:1"
	empty := ""

	cases := []struct {
		name string
		room Room
		want bool
	}{
		{"nil owner", Room{}, false},
		{"empty owner", Room{OwnerID: &empty}, false},
		{"set owner", Room{OwnerID: &owner}, true},
	}

	for _, tc := range cases {
		if got := tc.room.HasOwner(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRoom_IsOwnedBy(t *testing.T) {
	t.Parallel()

	owner := "user:1"
	room := Room{OwnerID: &owner}

	if !room.IsOwnedBy("user:1") {
		t.Error("expected owner to be recognized")
	}
	if room.IsOwnedBy("user:2") {
		t.Error("expected non-owner to be rejected")
	}

	unowned := Room{}
	if unowned.IsOwnedBy("user:1") {
		t.Error("expected unowned room to reject everyone")
	}
}
