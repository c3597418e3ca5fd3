package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want *Config
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: &Config{
				DatabasePath: "./data/mulebuy.db",
				LogLevel:     "info",
				ReferralCode: "",
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"DATABASE_PATH": "/tmp/mulebuy.db",
				"LOG_LEVEL":     "debug",
				"REFERRAL_CODE": "R42",
			},
			want: &Config{
				DatabasePath: "/tmp/mulebuy.db",
				LogLevel:     "debug",
				ReferralCode: "R42",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DATABASE_PATH", "LOG_LEVEL", "REFERRAL_CODE"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := Load()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
