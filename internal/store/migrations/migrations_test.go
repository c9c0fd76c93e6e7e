package migrations

import "testing"

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 1 {
		t.Errorf("LatestVersion() = %d, want 1", v)
	}
}

func TestStatus_UpToDate(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want bool
	}{
		{"current", Status{Version: 1, Latest: 1}, true},
		{"behind", Status{Version: 0, Latest: 1}, false},
		{"dirty", Status{Version: 1, Latest: 1, Dirty: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.UpToDate(); got != tt.want {
				t.Errorf("UpToDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
