package layout

import "github.com/geket/lamella/internal/wm"

// ContainerID identifies a container within one tree. IDs are issued by the
// owning tree; the zero value means "no container".
type ContainerID uint64

// Container groups child nodes under one layout mode. Ratios runs parallel
// to Children and sums to 1.0; structural changes re-derive it to equal
// shares, only ResizeChild moves individual boundaries.
type Container struct {
	ID           ContainerID    `json:"id"`
	Parent       ContainerID    `json:"parent,omitempty"`
	Children     []Node         `json:"children"`
	Mode         Mode           `json:"mode"`
	Split        SplitDirection `json:"split"`
	Ratios       []float64      `json:"ratios"`
	FocusedChild int            `json:"focused_child"`
	Geometry     wm.Geometry    `json:"geometry"`
	Gap          uint32         `json:"gap"`
}

// AddChild appends a node and re-derives equal ratios.
func (c *Container) AddChild(n Node) {
	c.Children = append(c.Children, n)
	c.recalcRatios()
}

// InsertChild inserts a node at index (clamped to the child count) and
// re-derives equal ratios.
func (c *Container) InsertChild(index int, n Node) {
	if index < 0 {
		index = 0
	}
	if index > len(c.Children) {
		index = len(c.Children)
	}
	c.Children = append(c.Children, Node{})
	copy(c.Children[index+1:], c.Children[index:])
	c.Children[index] = n
	c.recalcRatios()
}

// RemoveChild removes the child at index, re-derives ratios and clamps the
// focused index back into range.
func (c *Container) RemoveChild(index int) {
	if index < 0 || index >= len(c.Children) {
		return
	}
	c.Children = append(c.Children[:index], c.Children[index+1:]...)
	c.recalcRatios()
	if c.FocusedChild >= len(c.Children) && len(c.Children) > 0 {
		c.FocusedChild = len(c.Children) - 1
	}
}

// RemoveNode removes the first child equal to n. Reports whether a child was
// removed.
func (c *Container) RemoveNode(n Node) bool {
	for i, child := range c.Children {
		if child == n {
			c.RemoveChild(i)
			return true
		}
	}
	return false
}

// ResizeChild moves the boundary between child index and index+1 by delta,
// clamped so neither ratio drops below 5%. No-op for the last child or a
// container with fewer than two children.
func (c *Container) ResizeChild(index int, delta float64) {
	if len(c.Children) < 2 || index < 0 || index >= len(c.Children)-1 {
		return
	}
	const minRatio = 0.05
	maxDelta := c.Ratios[index+1] - minRatio
	if limit := 1.0 - minRatio - c.Ratios[index]; limit < maxDelta {
		maxDelta = limit
	}
	minDelta := -(c.Ratios[index] - minRatio)
	if delta > maxDelta {
		delta = maxDelta
	}
	if delta < minDelta {
		delta = minDelta
	}
	c.Ratios[index] += delta
	c.Ratios[index+1] -= delta
}

// FocusNext advances the focused child with wraparound.
func (c *Container) FocusNext() {
	if len(c.Children) == 0 {
		return
	}
	c.FocusedChild = (c.FocusedChild + 1) % len(c.Children)
}

// FocusPrev steps the focused child backward with wraparound.
func (c *Container) FocusPrev() {
	if len(c.Children) == 0 {
		return
	}
	if c.FocusedChild == 0 {
		c.FocusedChild = len(c.Children) - 1
	} else {
		c.FocusedChild--
	}
}

// Focused returns the focused child node.
func (c *Container) Focused() (Node, bool) {
	if c.FocusedChild < 0 || c.FocusedChild >= len(c.Children) {
		return Node{}, false
	}
	return c.Children[c.FocusedChild], true
}

// ContainsWindow reports whether the window is a direct child.
func (c *Container) ContainsWindow(id wm.WindowID) bool {
	for _, child := range c.Children {
		if child.Window == id && child.IsWindow() {
			return true
		}
	}
	return false
}

// WindowIndex returns the child index of the window, or -1.
func (c *Container) WindowIndex(id wm.WindowID) int {
	for i, child := range c.Children {
		if child.Window == id && child.IsWindow() {
			return i
		}
	}
	return -1
}

func (c *Container) IsEmpty() bool { return len(c.Children) == 0 }

func (c *Container) recalcRatios() {
	n := len(c.Children)
	if n == 0 {
		c.Ratios = nil
		return
	}
	ratio := 1.0 / float64(n)
	c.Ratios = make([]float64, n)
	for i := range c.Ratios {
		c.Ratios[i] = ratio
	}
}
