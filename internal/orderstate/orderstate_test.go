package orderstate

import (
	"errors"
	"reflect"
	"testing"
)

var allStatuses = []string{"PENDING", "CONFIRMED", "PREPARING", "READY", "DELIVERED", "CANCELLED"}

func TestValidate_ForwardPath(t *testing.T) {
	tests := []struct{ from, to string }{
		{"PENDING", "CONFIRMED"},
		{"CONFIRMED", "PREPARING"},
		{"PREPARING", "READY"},
		{"READY", "DELIVERED"},
		{"PENDING", "CANCELLED"},
		{"CONFIRMED", "CANCELLED"},
		{"PREPARING", "CANCELLED"},
		{"READY", "CANCELLED"},
	}
	for _, tt := range tests {
		if err := Validate(tt.from, tt.to); err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
	}
}

func TestValidate_Rejected(t *testing.T) {
	tests := []struct{ from, to string }{
		{"PENDING", "READY"},
		{"PENDING", "PENDING"},
		{"READY", "PREPARING"},
		{"CONFIRMED", "DELIVERED"},
		{"PENDING", "SHIPPED"},
		{"pending", "CONFIRMED"},
		{"PENDING", ""},
	}
	for _, tt := range tests {
		if err := Validate(tt.from, tt.to); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", tt.from, tt.to, err)
		}
	}
}

func TestValidate_TerminalStatesNeverMove(t *testing.T) {
	for _, from := range []string{"DELIVERED", "CANCELLED"} {
		for _, to := range allStatuses {
			if err := Validate(from, to); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestNext(t *testing.T) {
	want := map[string]string{
		"PENDING":   "CONFIRMED",
		"CONFIRMED": "PREPARING",
		"PREPARING": "READY",
		"READY":     "DELIVERED",
		"DELIVERED": "",
		"CANCELLED": "",
		"UNKNOWN":   "",
	}
	for from, next := range want {
		if got := Next(from); got != next {
			t.Errorf("Next(%s): got %q, want %q", from, got, next)
		}
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		from, to string
		want     []string
	}{
		{"PENDING", "CONFIRMED", []string{"CONFIRMED"}},
		{"PENDING", "READY", []string{"CONFIRMED", "PREPARING", "READY"}},
		{"CONFIRMED", "DELIVERED", []string{"PREPARING", "READY", "DELIVERED"}},
		{"PREPARING", "CANCELLED", []string{"CANCELLED"}},
		{"READY", "READY", nil},
	}
	for _, tt := range tests {
		got, err := Path(tt.from, tt.to)
		if err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPath_Rejected(t *testing.T) {
	tests := []struct{ from, to string }{
		{"READY", "CONFIRMED"},
		{"DELIVERED", "CANCELLED"},
		{"CANCELLED", "DELIVERED"},
		{"PENDING", "LOST"},
	}
	for _, tt := range tests {
		if _, err := Path(tt.from, tt.to); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", tt.from, tt.to, err)
		}
	}
}
