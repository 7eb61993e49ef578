package console

import (
	"fmt"
	"io"
	"sync"
)

// ToneNotifier prints outcome messages with the same tone markers the
// original web client used in its alerts: success, warning and error are
// visually distinct, and a conflict is a warning, never a hard failure.
type ToneNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewToneNotifier(out io.Writer) *ToneNotifier {
	return &ToneNotifier{out: out}
}

func (n *ToneNotifier) Success(message string) {
	n.write("✅", message)
}

func (n *ToneNotifier) Warning(message string) {
	n.write("⚠️", message)
}

func (n *ToneNotifier) Error(message string) {
	n.write("❌", message)
}

func (n *ToneNotifier) write(icon, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", icon, message)
}
