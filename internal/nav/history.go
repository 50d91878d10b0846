package nav

// History is the back stack of visited routes. The last entry is current.
type History struct {
	stack []Route
}

// NewHistory starts a history at r.
func NewHistory(r Route) *History {
	return &History{stack: []Route{r}}
}

// Current returns the route on top of the stack.
func (h *History) Current() Route {
	if len(h.stack) == 0 {
		return To(Home)
	}
	return h.stack[len(h.stack)-1]
}

// Push records a navigation. Pushing the current route again is a no-op.
func (h *History) Push(r Route) {
	if len(h.stack) > 0 && h.Current() == r {
		return
	}
	h.stack = append(h.stack, r)
}

// Replace swaps the current entry without adding history, the way a
// location update without reload behaves.
func (h *History) Replace(r Route) {
	if len(h.stack) == 0 {
		h.stack = append(h.stack, r)
		return
	}
	h.stack[len(h.stack)-1] = r
}

// Back pops the current route and returns the new current one. It reports
// false when there is nothing to go back to.
func (h *History) Back() (Route, bool) {
	if len(h.stack) <= 1 {
		return h.Current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Reset clears the stack and starts over at r.
func (h *History) Reset(r Route) {
	h.stack = []Route{r}
}

// Len reports the number of entries.
func (h *History) Len() int {
	return len(h.stack)
}
