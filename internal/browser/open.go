// Package browser hands a URL or file to the desktop's default opener.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open opens target, a URL or a local file such as an exported workbook,
// with the default application. It returns once the opener has started.
func Open(target string) error {
	name, args, err := command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("browser.Open: unsupported OS: %s", goos)
	}
}
