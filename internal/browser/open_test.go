package browser

import (
	"reflect"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"report.xlsx"}},
		{"linux", "xdg-open", []string{"report.xlsx"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "report.xlsx"}},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			name, args, err := command(tc.goos, "report.xlsx")
			if err != nil {
				t.Fatalf("command: %v", err)
			}
			if name != tc.wantName || !reflect.DeepEqual(args, tc.wantArgs) {
				t.Errorf("command(%s) = %s %v, want %s %v", tc.goos, name, args, tc.wantName, tc.wantArgs)
			}
		})
	}

	if _, _, err := command("plan9", "x"); err == nil {
		t.Error("expected an error for an unsupported OS")
	}
}
