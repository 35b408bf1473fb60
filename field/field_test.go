package field

import (
	"errors"
	"testing"
)

type (
	window struct {
		WindowID int
	}
	holder interface{ id() int }
	entity struct {
		Active  holder
		Pointer *window
		hidden  int
	}
)

func (w *window) id() int { return w.WindowID }

func TestGet(t *testing.T) {
	e := &entity{Active: &window{WindowID: 3}, Pointer: &window{WindowID: 4}, hidden: 1}
	tests := []struct {
		name string
		f    *Field
		want any
		err  error
	}{
		{"through interface", From(e).Get("Active").Get("WindowID"), 3, nil},
		{"through pointer", From(e).Get("Pointer").Get("WindowID"), 4, nil},
		{"missing", From(e).Get("Passive").Get("WindowID"), nil, ErrNoField},
		{"unexported", From(e).Get("hidden"), nil, ErrUnexported},
		{"not struct", From(e).Get("Pointer").Get("WindowID").Get("X"), nil, ErrNotStruct},
		{"nil root", From(nil).Get("Active"), nil, ErrNil},
		{"nil hop", From(&entity{}).Get("Active").Get("WindowID"), nil, ErrNil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
			if !errors.Is(tt.f.Err(), tt.err) {
				t.Errorf("Err() = %v, want %v", tt.f.Err(), tt.err)
			}
		})
	}
}

func TestPath(t *testing.T) {
	if p := From(&entity{}).Get("Active").Get("WindowID").Path(); p != "*field.entity.Active.WindowID" {
		t.Errorf("Path() = %s", p)
	}
}
