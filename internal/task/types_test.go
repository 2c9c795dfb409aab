package task

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"Not done", StatusNotDone, false},
		{"not-done", StatusNotDone, false},
		{"NOT_DONE", StatusNotDone, false},
		{"todo", StatusNotDone, false},
		{"In Progress", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"doing", StatusInProgress, false},
		{"Done", StatusDone, false},
		{" done ", StatusDone, false},
		{"blocked", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q): expected error", tt.in)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseStatus(%q): error %v does not match ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q): unexpected error %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatusCycle(t *testing.T) {
	if got := StatusNotDone.Next(); got != StatusInProgress {
		t.Errorf("Next(NotDone): got %q", got)
	}
	if got := StatusDone.Next(); got != StatusNotDone {
		t.Errorf("Next(Done): got %q", got)
	}
	if got := StatusNotDone.Prev(); got != StatusDone {
		t.Errorf("Prev(NotDone): got %q", got)
	}
	if got := Status("bogus").Next(); got != StatusNotDone {
		t.Errorf("Next(bogus): got %q", got)
	}
}

func TestNew(t *testing.T) {
	a := New("Buy milk", "")
	b := New("Buy milk", "")

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected ids to be generated")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both %q", a.ID)
	}
	if a.Status != StatusNotDone {
		t.Errorf("Status: got %q, want %q", a.Status, StatusNotDone)
	}
	if a.HasDeadline() {
		t.Errorf("expected no deadline, got %s", a.Deadline)
	}
}

func TestWithFieldsKeepsID(t *testing.T) {
	orig := New("a", "b")
	updated := orig.WithFields(Fields{
		Title:    "x",
		Summary:  "",
		Status:   StatusDone,
		Deadline: MustParseDate("2024-01-01"),
	})

	if updated.ID != orig.ID {
		t.Errorf("ID changed: got %q, want %q", updated.ID, orig.ID)
	}
	if updated.Title != "x" || updated.Summary != "" || updated.Status != StatusDone {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if updated.Deadline.String() != "2024-01-01" {
		t.Errorf("Deadline: got %q", updated.Deadline)
	}
	if orig.Title != "a" {
		t.Errorf("original mutated: %+v", orig)
	}
}

func TestFieldsValidate(t *testing.T) {
	tests := []struct {
		name      string
		fields    Fields
		wantField string
	}{
		{"valid", Fields{Title: "t", Status: StatusDone}, ""},
		{"empty title", Fields{Title: "", Status: StatusDone}, "title"},
		{"blank title", Fields{Title: "   ", Status: StatusDone}, "title"},
		{"bad status", Fields{Title: "t", Status: "Later"}, "status"},
		{"missing status", Fields{Title: "t"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field: got %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0123456789"); got != "01234567" {
		t.Errorf("ShortID: got %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID: got %q", got)
	}
}
