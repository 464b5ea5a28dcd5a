package assist

import (
	"os/exec"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
)

// commandRunning reports whether a process with the command's base name is
// already alive, so repeated stress spikes don't stack assistant instances.
// Scan errors are treated as "not running": a launch attempt is preferable
// to silently never assisting.
func commandRunning(command string) bool {
	if command == "" {
		return false
	}
	base := filepath.Base(command)

	procs, err := process.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if name == base {
			return true
		}
	}
	return false
}

// launchDetached starts the assistant without waiting for it. The child is
// reaped in the background so it never zombies under the daemon.
func launchDetached(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
