package gcs

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name, cdn, want string
	}{
		{"no cdn", "", "https://storage.googleapis.com/reports-bucket/reports/stu-1/a.png"},
		{"cdn", "img.example.com", "https://img.example.com/reports/stu-1/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicURL("reports-bucket", tt.cdn, "reports/stu-1/a.png"); got != tt.want {
				t.Errorf("PublicURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if opts := ClientOptionsFromEnv(); len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0 without credentials", len(opts))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	if opts := ClientOptionsFromEnv(); len(opts) != 1 {
		t.Errorf("len(opts) = %d, want 1 for a credentials file", len(opts))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	if opts := ClientOptionsFromEnv(); len(opts) != 1 {
		t.Errorf("len(opts) = %d, want 1 for inline credentials", len(opts))
	}
}
