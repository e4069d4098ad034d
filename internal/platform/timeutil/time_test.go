package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMarshalJSONFixedMillis(t *testing.T) {
	loc := time.FixedZone("CET", 60*60)
	ts := Time{Time: time.Date(2024, 1, 15, 11, 30, 0, 0, loc)}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-15T10:30:00.000Z"` {
		t.Fatalf("unexpected JSON: %s", data)
	}
}

func TestMarshalJSONTruncatesSubMillis(t *testing.T) {
	ts := Time{Time: time.Date(2024, 1, 15, 10, 30, 0, 123987654, time.UTC)}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-15T10:30:00.123Z"` {
		t.Fatalf("unexpected JSON: %s", data)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"millis", `"2024-01-15T10:30:00.000Z"`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"no fraction", `"2024-01-15T10:30:00Z"`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"offset", `"2024-01-15T12:30:00+02:00"`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got.Time)
			}
		})
	}
}

func TestUnmarshalJSONNullPreservesValue(t *testing.T) {
	orig := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	got := Time{Time: orig}
	if err := got.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(orig) {
		t.Fatalf("expected value to be preserved, got %v", got.Time)
	}
}

func TestUnmarshalJSONInvalid(t *testing.T) {
	var got Time
	if err := json.Unmarshal([]byte(`"yesterday"`), &got); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}

func TestNowRoundTrips(t *testing.T) {
	now := Now()
	data, err := json.Marshal(now)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Time
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(now.Time) {
		t.Fatalf("expected %v, got %v", now.Time, back.Time)
	}
}
