package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMonths(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{name: "full year", spec: "1-12", want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "list and range", spec: "1,3,5-7", want: []int{1, 3, 5, 6, 7}},
		{name: "duplicates keep first position", spec: "4,2-4,1", want: []int{4, 2, 3, 1}},
		{name: "spaces", spec: " 2 , 9 - 10 ", want: []int{2, 9, 10}},
		{name: "empty", spec: "", wantErr: true},
		{name: "only commas", spec: ",,", wantErr: true},
		{name: "out of range", spec: "0", wantErr: true},
		{name: "range past december", spec: "11-13", wantErr: true},
		{name: "reversed range", spec: "7-5", wantErr: true},
		{name: "not a number", spec: "march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMonths(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseMonths(%q) = %v, want error", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMonths(%q): %v", tt.spec, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseMonths(%q) mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}
