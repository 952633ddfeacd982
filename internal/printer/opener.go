package printer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a file in a new viewing context.
type Opener interface {
	Open(path string) error
}

// SystemOpener opens files with the platform's default handler.
type SystemOpener struct{}

// Open implements Opener. It starts the handler and does not wait for it.
func (SystemOpener) Open(path string) error {
	name, args := openCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// openCommand returns the command that opens path on goos.
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
