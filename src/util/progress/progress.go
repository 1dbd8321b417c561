package progress

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// Writer counts the lines written to it, one per archived file in tar's
// verbose listing, and periodically prints the count to out.
type Writer struct {
	out         io.Writer
	label       string
	files       int64
	mu          sync.Mutex
	lastPrinted time.Time
	now         func() time.Time
}

// NewWriter creates a progress Writer labelled label.
func NewWriter(out io.Writer, label string) *Writer {
	return &Writer{out: out, label: label, now: time.Now}
}

func (p *Writer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files += int64(bytes.Count(b, []byte{'\n'}))
	now := p.now()
	if now.Sub(p.lastPrinted) >= 200*time.Millisecond {
		p.print()
		p.lastPrinted = now
	}
	return len(b), nil
}

// Files returns the number of files seen so far.
func (p *Writer) Files() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files
}

// Done prints the final count and ends the progress line.
func (p *Writer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print()
	if p.out != nil {
		fmt.Fprint(p.out, "\n")
	}
}

func (p *Writer) print() {
	if p.out == nil {
		return
	}
	fmt.Fprintf(p.out, "\r[%s] %d files", p.label, p.files)
}
