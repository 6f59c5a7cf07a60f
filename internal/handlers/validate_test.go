package handlers

import (
	"strings"
	"testing"
)

func TestValidateClick(t *testing.T) {
	valid := clickInput{Page: "en/atp_10", Group: "sdk", Link: "sdk-link-0"}
	if msg := validateClick(valid); msg != "" {
		t.Errorf("valid click rejected: %s", msg)
	}

	tests := []struct {
		name string
		in   clickInput
	}{
		{"empty page", clickInput{Group: "g", Link: "l"}},
		{"long page", clickInput{Page: "en/" + strings.Repeat("a", 300), Group: "g", Link: "l"}},
		{"bad page", clickInput{Page: "atp_10", Group: "g", Link: "l"}},
		{"long group", clickInput{Page: "en/a", Group: strings.Repeat("g", 201), Link: "l"}},
		{"long link", clickInput{Page: "en/a", Group: "g", Link: strings.Repeat("l", 201)}},
	}
	for _, tt := range tests {
		if msg := validateClick(tt.in); msg == "" {
			t.Errorf("%s: expected a validation message", tt.name)
		}
	}

	// Empty group or link resolves to nothing later; it is not rejected.
	for _, in := range []clickInput{
		{Page: "en/a", Group: "  ", Link: "l"},
		{Page: "en/a", Group: "g"},
	} {
		if msg := validateClick(in); msg != "" {
			t.Errorf("%+v rejected: %s", in, msg)
		}
	}
}

func TestSwitchSource(t *testing.T) {
	tests := []struct {
		from, referer, want string
	}{
		{"/docs/a", "", "/docs/a"},
		{"/docs/a?x=1", "", "/docs/a"},
		{"", "http://host/cn/docs/a", "/cn/docs/a"},
		{"", "http://other/cn/docs/a", "/"},
		{"//evil.test/x", "", "/"},
		{"javascript:alert(1)", "", "/"},
		{"docs/a", "", "/"},
		{"", "", "/"},
		{"/docs/a%23b", "", "/docs/a%23b"},
		{"", "http://host/docs/a%3Fb", "/docs/a%3Fb"},
	}
	for _, tt := range tests {
		if got := switchSource(tt.from, tt.referer, "host"); got != tt.want {
			t.Errorf("switchSource(%q, %q) = %q, want %q", tt.from, tt.referer, got, tt.want)
		}
	}
}
