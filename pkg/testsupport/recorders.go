package testsupport

import "sync"

// Navigator records redirect targets.
type Navigator struct {
	mu      sync.Mutex
	targets []string
}

// Navigate records target.
func (n *Navigator) Navigate(target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
	return nil
}

// Targets returns the recorded targets in order.
func (n *Navigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

// Alerter records blocking alerts.
type Alerter struct {
	mu       sync.Mutex
	messages []string
}

// Alert records message.
func (a *Alerter) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

// Messages returns the recorded alerts in order.
func (a *Alerter) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}
