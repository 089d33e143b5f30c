package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestHelperKeys(t *testing.T) {
	cases := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"Session", Session("abc"), KeySession, "abc"},
		{"Section", Section("skills"), KeySection, "skills"},
		{"Path", Path("/"), KeyPath, "/"},
		{"Method", Method("GET"), KeyMethod, "GET"},
		{"Job", Job("visitor-cleanup"), KeyJob, "visitor-cleanup"},
		{"Visitor", Visitor("deadbeef"), KeyVisitor, "deadbeef"},
		{"Error", Error(errors.New("boom")), KeyError, "boom"},
		{"NilError", Error(nil), KeyError, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.attr.Key != c.key {
				t.Fatalf("key = %q, want %q", c.attr.Key, c.key)
			}
			if got := c.attr.Value.String(); got != c.want {
				t.Fatalf("value = %q, want %q", got, c.want)
			}
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Status(404); a.Key != KeyStatus || a.Value.Int64() != 404 {
		t.Fatalf("Status = %v", a)
	}
	if a := MessageID(7); a.Key != KeyMessageID || a.Value.Int64() != 7 {
		t.Fatalf("MessageID = %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("Duration = %v", a)
	}
}
