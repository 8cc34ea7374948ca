package domain

// Grid владеет плоским массивом клеток width × height.
// Индексация как в спатиал-хеше: idx = y*Width + x.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	nodes []Node
}

// NewGrid создает грид, каждая клетка знает свою позицию.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		nodes:  make([]Node, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			g.nodes[idx] = Node{
				ID:  NodeID(idx),
				Pos: Position{X: x, Y: y},
			}
		}
	}
	return g
}

func (g *Grid) Index(x, y int) NodeID {
	return NodeID(y*g.Width + x)
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Node возвращает клетку по позиции. nil за границами грида.
func (g *Grid) Node(p Position) *Node {
	if !g.InBounds(p.X, p.Y) {
		return nil
	}
	return &g.nodes[g.Index(p.X, p.Y)]
}

// NodeByID возвращает клетку по ID. nil для невалидного ID.
func (g *Grid) NodeByID(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Фиксированный порядок обхода соседей: N, S, E, W, затем диагонали.
// Порядок важен - он дает детерминированный tie-break в поиске пути.
var neighborOffsets = [8][2]int{
	{0, -1}, // N
	{0, 1},  // S
	{1, 0},  // E
	{-1, 0}, // W
	{1, -1}, // NE
	{1, 1},  // SE
	{-1, 1}, // SW
	{-1, -1}, // NW
}

// Neighbors возвращает 4 или 8 соседних клеток в границах грида.
func (g *Grid) Neighbors(p Position, allowDiagonal bool) []*Node {
	count := 4
	if allowDiagonal {
		count = 8
	}
	out := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		nx := p.X + neighborOffsets[i][0]
		ny := p.Y + neighborOffsets[i][1]
		if !g.InBounds(nx, ny) {
			continue
		}
		out = append(out, &g.nodes[g.Index(nx, ny)])
	}
	return out
}

// NodesInRect возвращает клетки прямоугольника origin..origin+size,
// обрезанного по границам грида.
func (g *Grid) NodesInRect(origin Position, w, h int) []*Node {
	var out []*Node
	for y := origin.Y; y < origin.Y+h; y++ {
		for x := origin.X; x < origin.X+w; x++ {
			if !g.InBounds(x, y) {
				continue
			}
			out = append(out, &g.nodes[g.Index(x, y)])
		}
	}
	return out
}

// NodesInRadius возвращает клетки на евклидовом расстоянии <= r (включительно).
func (g *Grid) NodesInRadius(center Position, r float64) []*Node {
	var out []*Node
	// Ограничиваем перебор квадратом вокруг центра
	ri := int(r) + 1
	r2 := r * r
	for y := center.Y - ri; y <= center.Y+ri; y++ {
		for x := center.X - ri; x <= center.X+ri; x++ {
			if !g.InBounds(x, y) {
				continue
			}
			p := Position{X: x, Y: y}
			if float64(center.DistanceSquaredTo(p)) <= r2 {
				out = append(out, &g.nodes[g.Index(x, y)])
			}
		}
	}
	return out
}
