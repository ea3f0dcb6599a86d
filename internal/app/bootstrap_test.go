package app

import (
	"reflect"
	"testing"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{
		"8080":   ":8080",
		" :9000": ":9000",
	}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil {
			t.Fatalf("ListenAddr(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ListenAddr(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ListenAddr("  "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestAllowedOrigins(t *testing.T) {
	got := allowedOrigins("https://a.example, ,https://b.example")
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := allowedOrigins(""); !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("expected wildcard fallback, got %v", got)
	}
}
