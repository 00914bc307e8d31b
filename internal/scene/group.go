package scene

// Group is a node holding meshes, lines and child groups.
type Group struct {
	Name     string
	Meshes   []*Mesh
	Lines    []*Line
	Children []*Group
	parent   *Group
}

func NewGroup(name string) *Group { return &Group{Name: name} }

func (g *Group) AddMesh(m *Mesh) {
	if m.parent != nil {
		m.parent.RemoveMesh(m)
	}
	m.parent = g
	g.Meshes = append(g.Meshes, m)
}

func (g *Group) AddLine(l *Line) {
	if l.parent != nil {
		l.parent.RemoveLine(l)
	}
	l.parent = g
	g.Lines = append(g.Lines, l)
}

func (g *Group) AddGroup(c *Group) {
	if c.parent != nil {
		c.parent.RemoveGroup(c)
	}
	c.parent = g
	g.Children = append(g.Children, c)
}

// RemoveMesh detaches m and reports whether it was a child of g.
func (g *Group) RemoveMesh(m *Mesh) bool {
	for i, o := range g.Meshes {
		if o == m {
			g.Meshes = append(g.Meshes[:i], g.Meshes[i+1:]...)
			m.parent = nil
			return true
		}
	}
	return false
}

func (g *Group) RemoveLine(l *Line) bool {
	for i, o := range g.Lines {
		if o == l {
			g.Lines = append(g.Lines[:i], g.Lines[i+1:]...)
			l.parent = nil
			return true
		}
	}
	return false
}

func (g *Group) RemoveGroup(c *Group) bool {
	for i, o := range g.Children {
		if o == c {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// ClearLines drops every line directly under g.
func (g *Group) ClearLines() {
	for _, l := range g.Lines {
		l.parent = nil
	}
	g.Lines = nil
}

// Walk visits g and its descendants depth first.
func (g *Group) Walk(fn func(*Group)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// AllMeshes collects the meshes of g and its descendants.
func (g *Group) AllMeshes() []*Mesh {
	var out []*Mesh
	g.Walk(func(n *Group) { out = append(out, n.Meshes...) })
	return out
}

// AllLines collects the lines of g and its descendants.
func (g *Group) AllLines() []*Line {
	var out []*Line
	g.Walk(func(n *Group) { out = append(out, n.Lines...) })
	return out
}
