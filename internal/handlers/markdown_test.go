package handlers

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	md := newMarkdown()

	tests := []struct {
		name    string
		in      string
		want    string
		notWant string
	}{
		{"emphasis", "**hi**", "<strong>hi</strong>", ""},
		{"code", "`x := 1`", "<code>x := 1</code>", ""},
		{"table", "| a |\n|---|\n| b |", "<table>", ""},
		{"raw html dropped", "<img src=x onerror=alert(1)>", "", "<img"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(renderMarkdown(md, tc.in))
			if tc.want != "" && !strings.Contains(got, tc.want) {
				t.Errorf("Expected %q in %q", tc.want, got)
			}
			if tc.notWant != "" && strings.Contains(got, tc.notWant) {
				t.Errorf("Did not expect %q in %q", tc.notWant, got)
			}
		})
	}
}
