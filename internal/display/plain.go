package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Plain is a line-oriented console without the status bar, for piped input
// and dumb terminals. It offers the same print helpers as [UI].
type Plain struct {
	mu      sync.Mutex
	out     io.Writer
	inputCh chan string
}

// NewPlain reads lines from in and writes to out. The input channel is
// closed when in is exhausted.
func NewPlain(in io.Reader, out io.Writer) *Plain {
	p := &Plain{out: out, inputCh: make(chan string)}
	go func() {
		defer close(p.inputCh)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			p.inputCh <- strings.TrimRight(sc.Text(), "\r")
		}
	}()
	return p
}

// InputChan returns input lines.
func (p *Plain) InputChan() <-chan string { return p.inputCh }

// SetMasked is a no-op; plain input is not echoed by the console.
func (p *Plain) SetMasked(bool) {}

// Println writes a line. Thread-safe.
func (p *Plain) Println(a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

// PrintChat prints a prompt or reply line.
func (p *Plain) PrintChat(text string) { p.Println(text) }

// PrintHeader prints a panel title.
func (p *Plain) PrintHeader(text string) { p.Println("\n" + text) }

// PrintLine prints a listing line.
func (p *Plain) PrintLine(text string) { p.Println("  " + text) }

// PrintHint prints a secondary line.
func (p *Plain) PrintHint(text string) { p.Println("  " + text) }

// PrintUrgent prints an error or alert line.
func (p *Plain) PrintUrgent(text string) { p.Println("! " + text) }
