package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wordlang/wordc/runtime"
)

// invokeCC shells out to the host C compiler (spec.md §6: "the driver
// links it separately" — the runtime ABI is not bundled into the
// emitted C, it's written alongside it and handed to cc as a second
// translation unit), writing the binary to binPath. It returns the
// compiler's error, if any.
func invokeCC(cPath, binPath string) error {
	dir := filepath.Dir(cPath)
	headerPath := filepath.Join(dir, runtime.HeaderName)
	sourcePath := filepath.Join(dir, runtime.SourceName)

	if err := os.WriteFile(headerPath, runtime.Header, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", runtime.HeaderName, err)
	}
	if err := os.WriteFile(sourcePath, runtime.Source, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", runtime.SourceName, err)
	}

	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}

	cmd := exec.Command(cc, "-std=c11", "-D_POSIX_C_SOURCE=200809L", "-o", binPath, cPath, sourcePath, "-lm")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("invoking %s: %w", cc, err)
	}
	return nil
}

// runBinary executes the compiled program, streaming its stdio through
// to the driver's own and reporting its exit code (spec.md §6:
// "propagated child-process exit status on run").
func runBinary(binPath string, args []string) (int, error) {
	cmd := exec.Command(binPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 1, err
}
