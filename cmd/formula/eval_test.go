package main

import "testing"

func TestParseBindings(t *testing.T) {
	got, err := parseBindings([]string{"a=2", "b=3.5", "c=-1"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"a": 2, "b": 3.5, "c": -1}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: want %g, got %g", k, v, got[k])
		}
	}
}

func TestParseBindingsInvalid(t *testing.T) {
	for _, kv := range []string{"a", "=2", "a=", "a=xyz"} {
		if _, err := parseBindings([]string{kv}); err == nil {
			t.Errorf("%q: no error", kv)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{8, "8"},
		{22.5, "22.5"},
		{0.5, "0.5"},
		{-3, "-3"},
	}
	for _, c := range cases {
		if got := formatValue(c.in); got != c.want {
			t.Errorf("formatValue(%g): want %q, got %q", c.in, c.want, got)
		}
	}
}
