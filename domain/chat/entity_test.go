package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRole_CanCreateRoomFor(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		requester string
		target    string
		want      bool
	}{
		{"admin for anyone", RoleAdmin, "a1", "u1", true},
		{"user for self", RoleUser, "u1", "u1", true},
		{"user for other", RoleUser, "u1", "u2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.CanCreateRoomFor(tt.requester, tt.target); got != tt.want {
				t.Errorf("CanCreateRoomFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("Admin"); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(Admin) = %v, %v", r, err)
	}
	if r, err := ParseRole("user"); err != nil || r != RoleUser {
		t.Errorf("ParseRole(user) = %v, %v", r, err)
	}
	if _, err := ParseRole("root"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ParseRole(root) error = %v, want ErrInvalidRole", err)
	}
}

func TestRoom_Counterpart(t *testing.T) {
	room := Room{AdminID: "a", UserID: "u"}

	if got := room.Counterpart("a"); got != "u" {
		t.Errorf("Counterpart(a) = %q, want u", got)
	}
	if got := room.Counterpart("u"); got != "a" {
		t.Errorf("Counterpart(u) = %q, want a", got)
	}
	if got := room.Counterpart("x"); got != "" {
		t.Errorf("Counterpart(x) = %q, want empty", got)
	}
	if room.HasParticipant("") {
		t.Error("HasParticipant(\"\") = true")
	}
}

func TestMessage_JSON(t *testing.T) {
	data, err := json.Marshal(Message{ID: "m1", Status: StatusDelivered})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"status":"delivered"`) {
		t.Errorf("Marshal() = %s, want status as name", data)
	}

	var u User
	if err := json.Unmarshal([]byte(`{"id":"a","role":"admin"}`), &u); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !u.Role.IsAdmin() {
		t.Errorf("Role = %s, want admin", u.Role)
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", "hello", false},
		{"empty", "", true},
		{"whitespace", "   \n", true},
		{"too long", strings.Repeat("a", MaxMessageLength+1), true},
		{"max length", strings.Repeat("a", MaxMessageLength), false},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.body)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ValidateMessage() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrUnauthenticated, CodeUnauthenticated},
		{ErrForbidden, CodeForbidden},
		{ErrInvalidStatus, CodeInvalidStatus},
		{errors.New("boom"), CodeInternal},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
