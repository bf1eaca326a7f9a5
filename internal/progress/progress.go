// Package progress reports how far long-running loops have advanced.
// Library code depends only on Reporter; the CLI plugs in a terminal bar.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives increments of completed work units.
// *progressbar.ProgressBar satisfies it.
type Reporter interface {
	Add(n int) error
}

// Nop discards every report.
var Nop Reporter = nop{}

type nop struct{}

func (nop) Add(int) error { return nil }

// Sizer is a Reporter whose total can change after it was created.
// *progressbar.ProgressBar satisfies it.
type Sizer interface {
	ChangeMax(n int)
}

// Resize sets the total of r to n when r is a Sizer.
func Resize(r Reporter, n int) {
	if s, ok := r.(Sizer); ok {
		s.ChangeMax(n)
	}
}

// Or returns r, or Nop when r is nil.
func Or(r Reporter) Reporter {
	if r == nil {
		return Nop
	}
	return r
}

// NewBar returns a terminal progress bar for total units written to w.
func NewBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionClearOnFinish(),
	)
}
