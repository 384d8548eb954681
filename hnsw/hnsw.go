package hnsw

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/hnswkit/internal/fs"
	"github.com/hupe1980/hnswkit/persistence"
	"github.com/hupe1980/hnswkit/queue"
	"github.com/hupe1980/hnswkit/space"
)

// Options represents the options for configuring HNSW.
type Options struct {
	// Heuristic selects neighbours with the diversity heuristic (true) or
	// keeps the plain nearest candidates (false).
	Heuristic bool

	// Seed seeds the level generator. Equal seeds and equal insertion order
	// produce identical graphs.
	Seed int64

	// Compression is applied to the body of saved index files.
	Compression persistence.Compression

	// FileSystem is used by SaveIndex and LoadIndex. Nil means fs.Default.
	FileSystem fs.FileSystem
}

var DefaultOptions = Options{
	Heuristic:   true,
	Seed:        100,
	Compression: persistence.CompressionNone,
}

const defaultEf = 10

// Result is a label together with its distance to the query.
type Result struct {
	Label    uint64
	Distance float32
}

type node struct {
	label       uint64
	level       int
	vector      []float32
	connections [][]uint32
}

// HNSW represents the Hierarchical Navigable Small World graph
type HNSW struct {
	space          space.Space
	dim            int
	m              int     // Max connections per element on upper layers
	mmax0          int     // Max connections on layer 0
	efConstruction int     // Candidate list size during insertion
	ef             int     // Candidate list size during search
	ml             float64 // Normalization factor for level generation
	maxElements    int

	nodes   []*node
	labels  map[uint64]uint32
	deleted *roaring.Bitmap // internal ids marked deleted

	ep       uint32 // Entry point
	maxLevel int    // Level of the entry point

	rng    *rand.Rand
	opts   Options
	closed bool
}

// New creates an empty graph bound to sp with room for maxElements points.
//
// M below 2 is raised to 2, and efConstruction below M is raised to M.
func New(sp space.Space, maxElements, m, efConstruction int, optFns ...func(o *Options)) (*HNSW, error) {
	if sp == nil {
		return nil, ErrNilSpace
	}

	if maxElements < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxElements)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &HNSW{
		space:       sp,
		dim:         sp.Dim(),
		ef:          defaultEf,
		maxElements: maxElements,
		opts:        opts,
		rng:         rand.New(rand.NewSource(opts.Seed)), // nolint gosec
	}

	h.configure(m, efConstruction)
	h.nodes = make([]*node, 0, min(maxElements, 1024))
	h.labels = make(map[uint64]uint32)
	h.deleted = roaring.New()

	return h, nil
}

func (h *HNSW) configure(m, efConstruction int) {
	if m < 2 {
		// M == 1 would result in division by zero: 1 / log(1.0 * M)
		m = 2
	}

	h.m = m
	h.mmax0 = 2 * m
	h.efConstruction = max(efConstruction, m)
	h.ml = 1 / math.Log(float64(m))
}

func (h *HNSW) randomLevel() int {
	// 1 - Float64 is in (0, 1], so the logarithm stays finite.
	return int(math.Floor(-math.Log(1-h.rng.Float64()) * h.ml))
}

func (h *HNSW) distance(q []float32, id uint32) float32 {
	return h.space.Distance(q, h.nodes[id].vector)
}

// AddPoint inserts v under label.
func (h *HNSW) AddPoint(v []float32, label uint64) error {
	if h.closed {
		return ErrClosed
	}

	if len(v) != h.dim {
		return &ErrDimensionMismatch{Expected: h.dim, Actual: len(v)}
	}

	if _, ok := h.labels[label]; ok {
		return fmt.Errorf("%w: %d", ErrLabelExists, label)
	}

	if len(h.nodes) >= h.maxElements {
		return ErrCapacityExceeded
	}

	// Copy so changes outside this function don't affect the node.
	vec := make([]float32, h.dim)
	copy(vec, h.space.Prepare(v))

	id := uint32(len(h.nodes))
	level := h.randomLevel()

	n := &node{
		label:       label,
		level:       level,
		vector:      vec,
		connections: make([][]uint32, level+1),
	}

	h.nodes = append(h.nodes, n)
	h.labels[label] = id

	if id == 0 {
		h.ep = 0
		h.maxLevel = level

		return nil
	}

	currObj := h.ep
	currDist := h.distance(vec, currObj)

	// Greedy descent through the layers above the new node.
	for level := h.maxLevel; level > n.level; level-- {
		currObj, currDist = h.greedyStep(vec, currObj, currDist, level)
	}

	for level := min(n.level, h.maxLevel); level >= 0; level-- {
		topCandidates := h.searchLayer(vec, currObj, currDist, h.efConstruction, level, nil)
		neighbours := h.selectNeighbours(topCandidates, h.m)

		conns := make([]uint32, len(neighbours))
		for i, nb := range neighbours {
			conns[i] = nb.Node
		}

		n.connections[level] = conns

		for _, nb := range neighbours {
			h.link(nb.Node, id, level)
		}

		currObj, currDist = neighbours[0].Node, neighbours[0].Distance
	}

	if n.level > h.maxLevel {
		h.ep = id
		h.maxLevel = n.level
	}

	return nil
}

func (h *HNSW) greedyStep(q []float32, curr uint32, currDist float32, level int) (uint32, float32) {
	for changed := true; changed; {
		changed = false

		for _, nb := range h.nodes[curr].connections[level] {
			if d := h.distance(q, nb); d < currDist {
				curr, currDist, changed = nb, d, true
			}
		}
	}

	return curr, currDist
}

// link adds an edge from -> to on level and shrinks the neighbour list of
// from if it grows beyond the layer's limit.
func (h *HNSW) link(from, to uint32, level int) {
	maxConnections := h.m
	// HNSW allows double the connections for the bottom level (0)
	if level == 0 {
		maxConnections = h.mmax0
	}

	n := h.nodes[from]
	n.connections[level] = append(n.connections[level], to)

	if len(n.connections[level]) <= maxConnections {
		return
	}

	candidates := queue.NewMax(len(n.connections[level]))
	for _, id := range n.connections[level] {
		candidates.PushItem(queue.Item{Node: id, Distance: h.distance(n.vector, id)})
	}

	selected := h.selectNeighbours(candidates, maxConnections)

	conns := make([]uint32, len(selected))
	for i, item := range selected {
		conns[i] = item.Node
	}

	n.connections[level] = conns
}

// searchLayer runs a best-first search on level starting at ep and returns
// up to ef accepted candidates as a max-heap.
//
// Rejected nodes are still expanded so the traversal can route through them.
// A nil accept function accepts every node.
func (h *HNSW) searchLayer(q []float32, ep uint32, epDist float32, ef int, level int, accept func(uint32) bool) *queue.PriorityQueue {
	visited := bitset.New(uint(len(h.nodes)))
	visited.Set(uint(ep))

	topCandidates := queue.NewMax(ef + 1)
	candidates := queue.NewMin(ef)

	lowerBound := float32(math.Inf(1))
	if accept == nil || accept(ep) {
		topCandidates.PushItem(queue.Item{Node: ep, Distance: epDist})
		lowerBound = epDist
	}

	candidates.PushItem(queue.Item{Node: ep, Distance: epDist})

	for candidates.Len() > 0 {
		candidate := candidates.Top()
		if candidate.Distance > lowerBound && (topCandidates.Len() >= ef || accept == nil) {
			break
		}

		candidates.PopItem()

		conns := h.nodes[candidate.Node].connections
		if level >= len(conns) {
			continue
		}

		for _, n := range conns[level] {
			if visited.Test(uint(n)) {
				continue
			}

			visited.Set(uint(n))

			d := h.distance(q, n)
			if topCandidates.Len() >= ef && d >= lowerBound {
				continue
			}

			candidates.PushItem(queue.Item{Node: n, Distance: d})

			if accept == nil || accept(n) {
				topCandidates.PushItem(queue.Item{Node: n, Distance: d})

				if topCandidates.Len() > ef {
					topCandidates.PopItem()
				}
			}

			if topCandidates.Len() > 0 {
				lowerBound = topCandidates.Top().Distance
			}
		}
	}

	return topCandidates
}

// selectNeighbours drains the max-heap and returns at most m items ordered
// nearest first.
func (h *HNSW) selectNeighbours(topCandidates *queue.PriorityQueue, m int) []queue.Item {
	sorted := make([]queue.Item, topCandidates.Len())
	for i := len(sorted) - 1; i >= 0; i-- {
		sorted[i] = topCandidates.PopItem()
	}

	if len(sorted) <= m {
		return sorted
	}

	if !h.opts.Heuristic {
		return sorted[:m]
	}

	selected := make([]queue.Item, 0, m)
	discarded := make([]queue.Item, 0, len(sorted))

	for _, item := range sorted {
		if len(selected) >= m {
			break
		}

		keep := true

		// Skip candidates closer to an already selected neighbour than to the base.
		for _, s := range selected {
			if h.space.Distance(h.nodes[s.Node].vector, h.nodes[item.Node].vector) < item.Distance {
				keep = false
				break
			}
		}

		if keep {
			selected = append(selected, item)
		} else {
			discarded = append(discarded, item)
		}
	}

	// Fill up with the nearest discarded candidates.
	for _, item := range discarded {
		if len(selected) >= m {
			break
		}

		selected = append(selected, item)
	}

	return selected
}

// SearchKnn returns up to k results ordered farthest first, the order in
// which they leave the result max-heap.
//
// allow, when non-nil, is consulted for every candidate label reached on the
// bottom layer; rejected and deleted points are traversed but not returned.
func (h *HNSW) SearchKnn(q []float32, k int, allow func(label uint64) bool) ([]Result, error) {
	if h.closed {
		return nil, ErrClosed
	}

	if len(q) != h.dim {
		return nil, &ErrDimensionMismatch{Expected: h.dim, Actual: len(q)}
	}

	if k <= 0 || len(h.nodes) == 0 {
		return nil, nil
	}

	query := h.space.Prepare(q)

	currObj := h.ep
	currDist := h.distance(query, currObj)

	for level := h.maxLevel; level > 0; level-- {
		currObj, currDist = h.greedyStep(query, currObj, currDist, level)
	}

	topCandidates := h.searchLayer(query, currObj, currDist, max(h.ef, k), 0, h.acceptFunc(allow))

	for topCandidates.Len() > k {
		topCandidates.PopItem()
	}

	results := make([]Result, 0, topCandidates.Len())
	for topCandidates.Len() > 0 {
		item := topCandidates.PopItem()
		results = append(results, Result{Label: h.nodes[item.Node].label, Distance: item.Distance})
	}

	return results, nil
}

func (h *HNSW) acceptFunc(allow func(uint64) bool) func(uint32) bool {
	hasDeleted := !h.deleted.IsEmpty()
	if allow == nil && !hasDeleted {
		return nil
	}

	return func(id uint32) bool {
		if hasDeleted && h.deleted.Contains(id) {
			return false
		}

		return allow == nil || allow(h.nodes[id].label)
	}
}

// SetEf sets the search-time candidate list size.
func (h *HNSW) SetEf(ef int) error {
	if h.closed {
		return ErrClosed
	}

	if ef < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidEf, ef)
	}

	h.ef = ef

	return nil
}

// MarkDelete excludes label from future search results.
func (h *HNSW) MarkDelete(label uint64) error {
	id, err := h.lookup(label)
	if err != nil {
		return err
	}

	if !h.deleted.CheckedAdd(id) {
		return fmt.Errorf("%w: %d", ErrAlreadyDeleted, label)
	}

	return nil
}

// UnmarkDelete makes a deleted label searchable again.
func (h *HNSW) UnmarkDelete(label uint64) error {
	id, err := h.lookup(label)
	if err != nil {
		return err
	}

	if !h.deleted.CheckedRemove(id) {
		return fmt.Errorf("%w: %d", ErrNotDeleted, label)
	}

	return nil
}

func (h *HNSW) lookup(label uint64) (uint32, error) {
	if h.closed {
		return 0, ErrClosed
	}

	id, ok := h.labels[label]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrLabelNotFound, label)
	}

	return id, nil
}

// ResizeIndex changes the capacity.
func (h *HNSW) ResizeIndex(newMaxElements int) error {
	if h.closed {
		return ErrClosed
	}

	if newMaxElements < len(h.nodes) {
		return fmt.Errorf("%w: %d < %d", ErrResizeTooSmall, newMaxElements, len(h.nodes))
	}

	h.maxElements = newMaxElements

	return nil
}

// HasLabel reports whether label was inserted, deleted or not.
func (h *HNSW) HasLabel(label uint64) bool {
	if h.closed {
		return false
	}

	_, ok := h.labels[label]

	return ok
}

// IsDeleted reports whether label is marked deleted.
func (h *HNSW) IsDeleted(label uint64) (bool, error) {
	id, err := h.lookup(label)
	if err != nil {
		return false, err
	}

	return h.deleted.Contains(id), nil
}

// Vector returns a copy of the stored vector for label. Cosine spaces
// store normalized vectors.
func (h *HNSW) Vector(label uint64) ([]float32, error) {
	id, err := h.lookup(label)
	if err != nil {
		return nil, err
	}

	out := make([]float32, h.dim)
	copy(out, h.nodes[id].vector)

	return out, nil
}

// Space returns the space the graph is bound to.
func (h *HNSW) Space() space.Space { return h.space }

// Dim returns the vector dimension.
func (h *HNSW) Dim() int { return h.dim }

// M returns the graph degree parameter.
func (h *HNSW) M() int { return h.m }

// EfConstruction returns the construction candidate list size.
func (h *HNSW) EfConstruction() int { return h.efConstruction }

// Ef returns the search candidate list size.
func (h *HNSW) Ef() int { return h.ef }

// MaxElements returns the capacity.
func (h *HNSW) MaxElements() int { return h.maxElements }

// CurrentCount returns the number of inserted points, deleted ones included.
func (h *HNSW) CurrentCount() int { return len(h.nodes) }

// DeletedCount returns the number of points marked deleted.
func (h *HNSW) DeletedCount() int {
	if h.closed {
		return 0
	}

	return int(h.deleted.GetCardinality())
}

// Close releases the graph. It does not close the space.
func (h *HNSW) Close() error {
	h.closed = true
	h.nodes = nil
	h.labels = nil
	h.deleted = roaring.New()

	return nil
}
