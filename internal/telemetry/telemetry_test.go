package telemetry

import (
	"context"
	"testing"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		exporter string
		wantErr  bool
	}{
		{"", false},
		{"none", false},
		{"stdout", false},
		{"zipkin", true},
	}
	for _, tt := range tests {
		t.Run(tt.exporter, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), tt.exporter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Setup(%q) error = %v, wantErr %v", tt.exporter, err, tt.wantErr)
			}
			if err == nil {
				if err := shutdown(context.Background()); err != nil {
					t.Errorf("shutdown: %v", err)
				}
			}
		})
	}
}
