package scenario

import (
	"fmt"

	"github.com/KirillLvov/userfs"
)

// Result is the outcome of one step.
type Result struct {
	Index   int              // 1-based position in the scenario
	Step    Step             // The step that ran
	Code    userfs.ErrorCode // ErrCodeNone on success
	Err     error            // Error returned by the call, if any
	N       int64            // fd for open, bytes for read/write, position for seek, size for stat
	Data    string           // Bytes returned by read
	Failure string           // Why the step did not meet its expectation; empty when it did
}

// Passed reports whether the step met its expectation.
func (r Result) Passed() bool {
	return r.Failure == ""
}

// Report collects the results of a scenario run.
type Report struct {
	Name      string
	Results   []Result
	Files     []*userfs.Stats  // Files still bound when the run ended
	LastError userfs.ErrorCode // Error register at the end of the run
}

// Failed returns the number of steps that did not meet their expectation.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Run executes every step of s against a fresh filesystem built from opts.
// Steps keep running after a failed expectation so the report is complete.
func Run(s *Scenario, opts userfs.Options) (*Report, error) {
	if s.MaxDescriptors != 0 {
		opts.MaxDescriptors = s.MaxDescriptors
	}
	if s.BlockPoolSize != 0 {
		opts.BlockPoolSize = s.BlockPoolSize
	}
	ufs, err := userfs.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem: %w", err)
	}
	defer ufs.Reset()

	r := &runner{fs: ufs, handles: make(map[string]int)}
	rep := &Report{Name: s.Name}
	for i, st := range s.Steps {
		res := r.exec(st)
		res.Index = i + 1
		res.Step = st
		res.Failure = check(st, res)
		rep.Results = append(rep.Results, res)
	}

	for _, name := range ufs.List() {
		if st, err := ufs.Stat(name); err == nil {
			rep.Files = append(rep.Files, st)
		}
	}
	rep.LastError = ufs.LastError()
	return rep, nil
}

type runner struct {
	fs      userfs.FileSystem
	handles map[string]int
}

func (r *runner) fd(handle string) int {
	if fd, ok := r.handles[handle]; ok {
		return fd
	}
	return -1
}

func (r *runner) exec(st Step) Result {
	var res Result
	var err error

	switch st.Op {
	case OpOpen:
		flags, _ := st.openFlags()
		var fd int
		fd, err = r.fs.Open(st.Name, flags)
		res.N = int64(fd)
		if err == nil && st.Handle != "" {
			r.handles[st.Handle] = fd
		}
	case OpWrite:
		var n int
		n, err = r.fs.Write(r.fd(st.Handle), []byte(st.Data))
		res.N = int64(n)
	case OpRead:
		buf := make([]byte, st.Size)
		var n int
		n, err = r.fs.Read(r.fd(st.Handle), buf)
		res.N = int64(n)
		res.Data = string(buf[:n])
	case OpSeek:
		res.N, err = r.fs.Seek(r.fd(st.Handle), st.Offset, whenceNames[st.Whence])
	case OpClose:
		err = r.fs.Close(r.fd(st.Handle))
		if err == nil {
			delete(r.handles, st.Handle)
		}
	case OpDelete:
		err = r.fs.Delete(st.Name)
	case OpResize:
		err = r.fs.Resize(r.fd(st.Handle), st.Size)
	case OpStat:
		var stats *userfs.Stats
		stats, err = r.fs.Stat(st.Name)
		if err == nil {
			res.N = stats.Size
		}
	}

	res.Err = err
	res.Code = userfs.CodeOf(err)
	return res
}

// check compares a result with the step's expectation. A step without an
// expectation must succeed.
func check(st Step, res Result) string {
	if st.Expect == nil {
		if res.Err != nil {
			return fmt.Sprintf("unexpected error: %v", res.Err)
		}
		return ""
	}

	want, _ := userfs.ParseErrorCode(st.Expect.Error)
	if res.Code != want {
		return fmt.Sprintf("error = %s, want %s", res.Code.Name(), want.Name())
	}
	if st.Expect.N != nil && res.N != *st.Expect.N {
		return fmt.Sprintf("n = %d, want %d", res.N, *st.Expect.N)
	}
	if st.Expect.Data != nil && res.Data != *st.Expect.Data {
		return fmt.Sprintf("data = %q, want %q", res.Data, *st.Expect.Data)
	}
	return ""
}
