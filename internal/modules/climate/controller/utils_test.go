package controller

import (
	"testing"
	"time"
)

func Test_parsePathDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "20170823", want: time.Date(2017, 8, 23, 0, 0, 0, 0, time.UTC)},
		{in: "20100101", want: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "20160229", want: time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC)},
		{in: "20170229", wantErr: true},
		{in: "20231301", wantErr: true},
		{in: "20230132", wantErr: true},
		{in: "2023-01-01", wantErr: true},
		{in: "2023011", wantErr: true},
		{in: "202301011", wantErr: true},
		{in: "+2023011", wantErr: true},
		{in: " 2023011", wantErr: true},
		{in: "abcdefgh", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePathDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePathDate(%q) = %v; want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePathDate(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsePathDate(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}
