package bmi

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseLeading(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"175", 175},
		{"  70", 70},
		{"175cm", 175},
		{"68.5kg", 68.5},
		{"+12", 12},
		{"-3", -3},
		{".5", 0.5},
		{"5.", 5},
		{"1e2", 100},
		{"1e", 1},
		{"2E+1x", 20},
		{"0", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLeading(tc.in); got != tc.want {
				t.Errorf("parseLeading(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseLeadingNotANumber(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "-", ".", "Infinity", "NaN", "e5", "1e999"} {
		if got := parseLeading(in); !math.IsNaN(got) {
			t.Errorf("parseLeading(%q) = %v, want NaN", in, got)
		}
	}
}

func TestFieldUnmarshalJSON(t *testing.T) {
	var body struct {
		A Field `json:"a"`
		B Field `json:"b"`
		C Field `json:"c"`
		D Field `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":"175","b":70.5,"c":null}`), &body); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if body.A != "175" || body.B != "70.5" || body.C != "" || body.D != "" {
		t.Errorf("unexpected fields: %+v", body)
	}

	if err := json.Unmarshal([]byte(`{"a":true}`), &body); err == nil {
		t.Error("boolean field should fail to decode")
	}
}

func TestParseSystem(t *testing.T) {
	testCases := []struct {
		in   string
		want MeasurementSystem
	}{
		{"metric", Metric},
		{"METRIC", Metric},
		{" Imperial ", Imperial},
	}
	for _, tc := range testCases {
		got, err := ParseSystem(tc.in)
		if err != nil {
			t.Errorf("ParseSystem(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSystem(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseSystem("nautical"); err == nil {
		t.Error("ParseSystem should reject unknown systems")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{Underweight, Normal, Overweight, Obese} {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
		got, err = ParseCategory(c.Class())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.Class(), got, err)
		}
	}
	if _, err := ParseCategory("athletic"); err == nil {
		t.Error("ParseCategory should reject unknown names")
	}
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Category{"c": Overweight})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"c":"Overweight"}` {
		t.Errorf("Marshal = %s", data)
	}

	var c Category
	if err := json.Unmarshal([]byte(`"obese"`), &c); err != nil || c != Obese {
		t.Errorf("Unmarshal = %v, %v", c, err)
	}
}
