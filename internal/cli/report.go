package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/KirillLvov/userfs/internal/scenario"
)

type reportStyles struct {
	Title lipgloss.Style
	Pass  lipgloss.Style
	Fail  lipgloss.Style
	Muted lipgloss.Style
}

func newReportStyles(color bool) reportStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return reportStyles{Title: plain, Pass: plain, Fail: plain, Muted: plain}
	}
	return reportStyles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// useColor reports whether w is a terminal that accepts colour.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderReport(w io.Writer, rep *scenario.Report, st reportStyles) {
	fmt.Fprintln(w, st.Title.Render(rep.Name))

	for _, res := range rep.Results {
		status := st.Pass.Render("PASS")
		if !res.Passed() {
			status = st.Fail.Render("FAIL")
		}
		line := fmt.Sprintf("  %s %3d  %-28s -> %s", status, res.Index, describeStep(res.Step), outcome(res))
		if !res.Passed() {
			line += "  " + st.Fail.Render(res.Failure)
		}
		fmt.Fprintln(w, line)
	}

	for _, f := range rep.Files {
		fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("  file %q size=%d blocks=%d refs=%d", f.Name, f.Size, f.Blocks, f.Refs)))
	}

	summary := fmt.Sprintf("%d steps, %d failed, last error: %s", len(rep.Results), rep.Failed(), rep.LastError.Name())
	if rep.Failed() > 0 {
		fmt.Fprintln(w, st.Fail.Render(summary))
	} else {
		fmt.Fprintln(w, st.Pass.Render(summary))
	}
	fmt.Fprintln(w)
}

func describeStep(s scenario.Step) string {
	switch s.Op {
	case scenario.OpOpen:
		desc := fmt.Sprintf("open %q", s.Name)
		if len(s.Flags) > 0 {
			desc += " [" + strings.Join(s.Flags, ",") + "]"
		}
		if s.Handle != "" {
			desc += " as " + s.Handle
		}
		return desc
	case scenario.OpDelete, scenario.OpStat:
		return fmt.Sprintf("%s %q", s.Op, s.Name)
	case scenario.OpWrite:
		return fmt.Sprintf("write %s %s", s.Handle, abbreviate(s.Data))
	case scenario.OpRead, scenario.OpResize:
		return fmt.Sprintf("%s %s %d", s.Op, s.Handle, s.Size)
	case scenario.OpSeek:
		whence := s.Whence
		if whence == "" {
			whence = "start"
		}
		return fmt.Sprintf("seek %s %d from %s", s.Handle, s.Offset, whence)
	default:
		return s.Op + " " + s.Handle
	}
}

func outcome(res scenario.Result) string {
	if res.Err != nil {
		return res.Code.Name()
	}
	switch res.Step.Op {
	case scenario.OpOpen:
		return fmt.Sprintf("fd %d", res.N)
	case scenario.OpRead:
		return fmt.Sprintf("%d %s", res.N, abbreviate(res.Data))
	case scenario.OpWrite, scenario.OpSeek, scenario.OpStat:
		return fmt.Sprintf("%d", res.N)
	default:
		return "ok"
	}
}

func abbreviate(s string) string {
	const limit = 16
	if len(s) > limit {
		return fmt.Sprintf("%q...(%d bytes)", s[:limit], len(s))
	}
	return fmt.Sprintf("%q", s)
}
