package layout

import "github.com/geket/lamella/internal/wm"

// Tab header height in logical pixels. Stacked containers reserve one band
// per child.
const tabHeight = 24

// Tree is one workspace's tiling tree. It owns its containers and their id
// space, and caches the window geometries computed by the last layout pass.
type Tree struct {
	Containers       map[ContainerID]*Container  `json:"containers"`
	Root             ContainerID                 `json:"root,omitempty"`
	Focused          ContainerID                 `json:"focused,omitempty"`
	DefaultDirection SplitDirection              `json:"default_direction"`
	WindowGeometries map[wm.WindowID]wm.Geometry `json:"window_geometries"`

	nextID ContainerID
}

// NewTree creates an empty tree splitting horizontally by default.
func NewTree() *Tree {
	return &Tree{
		Containers:       make(map[ContainerID]*Container),
		DefaultDirection: Horizontal,
		WindowGeometries: make(map[wm.WindowID]wm.Geometry),
	}
}

func (t *Tree) newContainer(split SplitDirection, gap uint32) *Container {
	t.nextID++
	c := &Container{ID: t.nextID, Split: split, Gap: gap}
	t.Containers[c.ID] = c
	return c
}

// AddWindow inserts a window after the focused child of the focused
// container. The first window creates the root container with the given
// inter-child gap.
func (t *Tree) AddWindow(id wm.WindowID, innerGap uint32) {
	node := WindowNode(id)

	if t.Root == 0 {
		root := t.newContainer(t.DefaultDirection, innerGap)
		root.AddChild(node)
		t.Root = root.ID
		t.Focused = root.ID
		return
	}

	target := t.Focused
	if target == 0 {
		target = t.Root
	}
	container, ok := t.Containers[target]
	if !ok {
		return
	}
	insertPos := container.FocusedChild + 1
	container.InsertChild(insertPos, node)
	container.FocusedChild = insertPos
}

// RemoveWindow detaches the window from its container, pruning the container
// when it empties, and drops the cached geometry. Single-child parents left
// behind by the prune are kept as-is.
func (t *Tree) RemoveWindow(id wm.WindowID) {
	node := WindowNode(id)
	var emptied ContainerID

	for cid, container := range t.Containers {
		if container.RemoveNode(node) {
			if container.IsEmpty() {
				emptied = cid
			}
			break
		}
	}
	if emptied != 0 {
		t.removeEmptyContainer(emptied)
	}

	delete(t.WindowGeometries, id)
}

func (t *Tree) removeEmptyContainer(id ContainerID) {
	container, ok := t.Containers[id]
	if !ok {
		return
	}
	delete(t.Containers, id)

	if t.Root == id {
		t.Root = 0
		t.Focused = 0
		return
	}
	if container.Parent != 0 {
		if parent, ok := t.Containers[container.Parent]; ok {
			parent.RemoveNode(ContainerNode(id))
		}
	}
}

// CalculateLayout rebuilds the geometry cache for the area inset by the
// outer gap on all four sides.
func (t *Tree) CalculateLayout(available wm.Geometry, outerGap uint32) {
	t.WindowGeometries = make(map[wm.WindowID]wm.Geometry)

	if t.Root == 0 {
		return
	}
	inner := wm.Geometry{
		X:      available.X + int32(outerGap),
		Y:      available.Y + int32(outerGap),
		Width:  saturatingSub(available.Width, outerGap*2),
		Height: saturatingSub(available.Height, outerGap*2),
	}
	t.layoutContainer(t.Root, inner)
}

func (t *Tree) layoutContainer(id ContainerID, geometry wm.Geometry) {
	container, ok := t.Containers[id]
	if !ok {
		return
	}
	container.Geometry = geometry

	if len(container.Children) == 0 {
		return
	}
	switch container.Mode {
	case ModeTabbed, ModeStacked:
		t.layoutTabbed(container, geometry)
	default:
		t.layoutSplit(container, geometry)
	}
}

func (t *Tree) layoutSplit(container *Container, geometry wm.Geometry) {
	n := len(container.Children)
	if n == 0 {
		return
	}

	gap := container.Gap
	totalGap := gap * uint32(n-1)

	if container.Split == Horizontal {
		availableWidth := saturatingSub(geometry.Width, totalGap)
		x := geometry.X
		for i, child := range container.Children {
			ratio := ratioAt(container.Ratios, i, n)
			var width uint32
			if i == n-1 {
				width = remaining(geometry.X, geometry.Width, x)
			} else {
				width = uint32(float64(availableWidth) * ratio)
			}
			t.layoutChild(child, wm.Geometry{X: x, Y: geometry.Y, Width: width, Height: geometry.Height})
			x += int32(width) + int32(gap)
		}
		return
	}

	availableHeight := saturatingSub(geometry.Height, totalGap)
	y := geometry.Y
	for i, child := range container.Children {
		ratio := ratioAt(container.Ratios, i, n)
		var height uint32
		if i == n-1 {
			height = remaining(geometry.Y, geometry.Height, y)
		} else {
			height = uint32(float64(availableHeight) * ratio)
		}
		t.layoutChild(child, wm.Geometry{X: geometry.X, Y: y, Width: geometry.Width, Height: height})
		y += int32(height) + int32(gap)
	}
}

func (t *Tree) layoutTabbed(container *Container, geometry wm.Geometry) {
	header := uint32(tabHeight)
	if container.Mode == ModeStacked {
		header = tabHeight * uint32(len(container.Children))
	}
	content := wm.Geometry{
		X:      geometry.X,
		Y:      geometry.Y + int32(header),
		Width:  geometry.Width,
		Height: saturatingSub(geometry.Height, header),
	}

	// Only the focused child occupies the content area; the rest stay out
	// of the geometry cache until they gain focus.
	for i, child := range container.Children {
		if i == container.FocusedChild {
			t.layoutChild(child, content)
		}
	}
}

func (t *Tree) layoutChild(child Node, geometry wm.Geometry) {
	if child.IsContainer() {
		t.layoutContainer(child.Container, geometry)
		return
	}
	if child.IsWindow() {
		t.WindowGeometries[child.Window] = geometry
	}
}

// FocusDirection steps the focused container's focus index (left/up backward,
// right/down forward, with wraparound) and resolves the newly focused node to
// a window, descending into nested containers by first child.
func (t *Tree) FocusDirection(dir Direction) (wm.WindowID, bool) {
	container, ok := t.Containers[t.Focused]
	if !ok {
		return 0, false
	}
	switch dir {
	case DirLeft, DirUp:
		container.FocusPrev()
	case DirRight, DirDown:
		container.FocusNext()
	}

	node, ok := container.Focused()
	if !ok {
		return 0, false
	}
	if node.IsWindow() {
		return node.Window, true
	}
	return t.firstWindowIn(node.Container)
}

func (t *Tree) firstWindowIn(id ContainerID) (wm.WindowID, bool) {
	container, ok := t.Containers[id]
	if !ok || len(container.Children) == 0 {
		return 0, false
	}
	first := container.Children[0]
	if first.IsWindow() {
		return first.Window, true
	}
	return t.firstWindowIn(first.Container)
}

// ToggleSplit toggles the focused container's split axis.
func (t *Tree) ToggleSplit() {
	if container, ok := t.Containers[t.Focused]; ok {
		container.Split = container.Split.Toggle()
	}
}

// SetSplit sets the focused container's split axis.
func (t *Tree) SetSplit(dir SplitDirection) {
	if container, ok := t.Containers[t.Focused]; ok {
		container.Split = dir
	}
}

// SetMode sets the focused container's layout mode.
func (t *Tree) SetMode(mode Mode) {
	if container, ok := t.Containers[t.Focused]; ok {
		container.Mode = mode
	}
}

// CycleMode advances the focused container split -> tabbed -> stacked.
func (t *Tree) CycleMode() {
	container, ok := t.Containers[t.Focused]
	if !ok {
		return
	}
	switch container.Mode {
	case ModeSplit:
		container.Mode = ModeTabbed
	case ModeTabbed:
		container.Mode = ModeStacked
	default:
		container.Mode = ModeSplit
	}
}

// SetGap applies a new inter-child gap to every container.
func (t *Tree) SetGap(gap uint32) {
	for _, container := range t.Containers {
		container.Gap = gap
	}
}

// Locate finds the container directly holding the window and the window's
// child index.
func (t *Tree) Locate(id wm.WindowID) (*Container, int, bool) {
	for _, container := range t.Containers {
		if idx := container.WindowIndex(id); idx >= 0 {
			return container, idx, true
		}
	}
	return nil, -1, false
}

// FocusedContainer returns the focused container if present.
func (t *Tree) FocusedContainer() (*Container, bool) {
	container, ok := t.Containers[t.Focused]
	return container, ok
}

// WindowGeometry returns the cached geometry from the last layout pass.
func (t *Tree) WindowGeometry(id wm.WindowID) (wm.Geometry, bool) {
	geo, ok := t.WindowGeometries[id]
	return geo, ok
}

func ratioAt(ratios []float64, i, n int) float64 {
	if i < len(ratios) {
		return ratios[i]
	}
	return 1.0 / float64(n)
}

// remaining is the distance from offset to the parent's far edge, the exact
// leftover the last split child absorbs.
func remaining(start int32, size uint32, offset int32) uint32 {
	r := start + int32(size) - offset
	if r < 0 {
		return 0
	}
	return uint32(r)
}

func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
