package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// exitTimeout bounds how long Close waits for the decoder process to exit.
const exitTimeout = 3 * time.Second

// ExecCamera runs an external decoder (for example "zbarcam --raw
// --nodisplay") and treats every stdout line as one decoded value.
type ExecCamera struct {
	Command string
	Args    []string
}

// NewExecCamera parses a command line such as "zbarcam --raw --nodisplay".
func NewExecCamera(commandLine string) (*ExecCamera, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("empty camera command")
	}
	return &ExecCamera{Command: fields[0], Args: fields[1:]}, nil
}

func (c *ExecCamera) Open(ctx context.Context) (Feed, error) {
	if _, err := exec.LookPath(c.Command); err != nil {
		return nil, fmt.Errorf("decoder %q: %w", c.Command, err)
	}

	// The process outlives the Start call, so it gets its own context.
	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cmd := exec.CommandContext(pctx, c.Command, c.Args...)
	cmd.WaitDelay = exitTimeout
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start decoder %q: %w", c.Command, err)
	}

	f := &execFeed{
		cmd:     cmd,
		cancel:  cancel,
		results: make(chan DecodeResult),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go f.read(cmd, bufio.NewScanner(stdout))
	return f, nil
}

type execFeed struct {
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	results chan DecodeResult
	done    chan struct{}
	exited  chan struct{} // closed once cmd.Wait has returned
	once    sync.Once
	err     error
}

func (f *execFeed) Results() <-chan DecodeResult { return f.results }

func (f *execFeed) read(cmd *exec.Cmd, sc *bufio.Scanner) {
	defer close(f.exited)
	defer close(f.results)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case f.results <- DecodeResult{Text: line}:
		case <-f.done:
			_ = cmd.Wait()
			return
		}
	}
	if err := cmd.Wait(); err != nil {
		select {
		case <-f.done:
		case f.results <- DecodeResult{Err: fmt.Errorf("decoder exited: %w", err)}:
		}
	}
}

// Close kills the decoder process and waits for it to exit, so the device is
// free once Close returns. It is safe to call more than once.
func (f *execFeed) Close() error {
	f.once.Do(func() {
		close(f.done)
		f.cancel()
		select {
		case <-f.exited:
		case <-time.After(exitTimeout):
			f.err = fmt.Errorf("decoder %q did not exit within %s", f.cmd.Path, exitTimeout)
		}
	})
	return f.err
}
