package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/nargo"
)

// FakeNargo is a scripted stand-in for the nargo executable. It is safe for
// concurrent use.
type FakeNargo struct {
	FS      *fsutil.FileAccess
	Version string
	// Contracts are written to target/ on compile, keyed by file name.
	Contracts map[string]string
	// CompileErr, when set, fails every compile with this error.
	CompileErr error

	mu       sync.Mutex
	commands []nargo.Command
}

var _ nargo.Runner = (*FakeNargo)(nil)

// Run implements nargo.Runner.
func (f *FakeNargo) Run(_ context.Context, cmd nargo.Command) ([]byte, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if len(cmd.Args) > 0 && cmd.Args[0] == "--version" {
		v := f.Version
		if v == "" {
			v = nargo.DefaultExpectedVersion
		}
		return []byte(fmt.Sprintf("nargo version = %s\n", v)), nil
	}
	if f.CompileErr != nil {
		return []byte("error: aborting due to previous errors"), f.CompileErr
	}

	target := fsutil.Join(cmd.Dir, "target")
	for name, body := range f.Contracts {
		if err := f.FS.WriteFile(fsutil.Join(target, name), []byte(body)); err != nil {
			return nil, err
		}
	}
	return []byte("compiled"), nil
}

// Commands returns the invocations seen so far.
func (f *FakeNargo) Commands() []nargo.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nargo.Command(nil), f.commands...)
}
