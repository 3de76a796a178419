package tui

import (
	"fmt"

	"github.com/studiowebux/postdash/internal/extract"
	"github.com/studiowebux/postdash/internal/selection"
	"github.com/studiowebux/postdash/internal/types"
)

// FolderSelection summarizes how much of a folder's subtree is selected
type FolderSelection int

const (
	FolderNone FolderSelection = iota
	FolderPartial
	FolderAll
)

// Row is one visible line of the tree browser
type Row struct {
	Depth int
	Name  string
	Kind  extract.Kind

	// Endpoint is set for request rows
	Endpoint *extract.Endpoint

	// id identifies the node for the collapse map; derived from the
	// node's position so it is stable for a fetched (immutable) tree
	id string

	// item backs folder rows so descendants can be enumerated
	item *types.Item
}

// BrowseState encapsulates the tree browser: the flattened visible rows,
// the collapse map, and the cursor.
type BrowseState struct {
	collection string
	items      []types.Item

	collapsed map[string]bool
	cursor    int
	rows      []Row

	endpointCount int
}

// NewBrowseState creates the browser state for one fetched collection tree
func NewBrowseState(collectionName string, items []types.Item) *BrowseState {
	s := &BrowseState{
		collection: collectionName,
		items:      items,
		collapsed:  make(map[string]bool),
	}
	s.endpointCount = extract.Count(items)
	s.rebuild()
	return s
}

// rebuild flattens the tree into visible rows, skipping the children of
// collapsed folders. Row order matches the extractor's depth-first
// pre-order so the browser and the summary agree on traversal.
func (s *BrowseState) rebuild() {
	s.rows = s.rows[:0]
	s.flatten(s.items, 0, "")
	s.cursor = clamp(s.cursor, 0, len(s.rows)-1)
}

func (s *BrowseState) flatten(items []types.Item, depth int, prefix string) {
	for i := range items {
		item := &items[i]
		id := fmt.Sprintf("%s/%d", prefix, i)

		kind := extract.Classify(*item)

		row := Row{
			Depth: depth,
			Name:  item.Name,
			Kind:  kind,
			id:    id,
			item:  item,
		}
		if item.Request != nil {
			eps := extract.Endpoints([]types.Item{leafOnly(*item)})
			if len(eps) == 1 {
				row.Endpoint = &eps[0]
			}
		}
		s.rows = append(s.rows, row)

		if len(item.Items) > 0 && !s.collapsed[id] {
			s.flatten(item.Items, depth+1, id)
		}
	}
}

// leafOnly strips children so a request-bearing folder node yields exactly
// its own endpoint.
func leafOnly(item types.Item) types.Item {
	item.Items = nil
	return item
}

// Collection returns the collection name the browser is scoped to
func (s *BrowseState) Collection() string {
	return s.collection
}

// Rows returns the currently visible rows
func (s *BrowseState) Rows() []Row {
	return s.rows
}

// EndpointCount returns the total number of endpoints in the tree,
// independent of collapse state.
func (s *BrowseState) EndpointCount() int {
	return s.endpointCount
}

// Cursor returns the cursor position within the visible rows
func (s *BrowseState) Cursor() int {
	return s.cursor
}

// CurrentRow returns the row under the cursor
func (s *BrowseState) CurrentRow() (Row, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return Row{}, false
	}
	return s.rows[s.cursor], true
}

// Navigate moves the cursor by delta, clamped to the visible rows
func (s *BrowseState) Navigate(delta int) {
	s.cursor = clamp(s.cursor+delta, 0, len(s.rows)-1)
}

// SetCollapsed collapses or expands the folder under the cursor. Non-folder
// rows are left alone.
func (s *BrowseState) SetCollapsed(collapsed bool) {
	row, ok := s.CurrentRow()
	if !ok || len(row.item.Items) == 0 {
		return
	}
	s.collapsed[row.id] = collapsed
	s.rebuild()
}

// ToggleCollapsed flips the collapse state of the folder under the cursor
func (s *BrowseState) ToggleCollapsed() {
	row, ok := s.CurrentRow()
	if !ok || len(row.item.Items) == 0 {
		return
	}
	s.collapsed[row.id] = !s.collapsed[row.id]
	s.rebuild()
}

// RowEndpoints returns every endpoint a row contributes: the row's own
// request plus all descendants' requests for folder rows.
func (s *BrowseState) RowEndpoints(row Row) []extract.Endpoint {
	if row.item == nil {
		return nil
	}
	return extract.Endpoints([]types.Item{*row.item})
}

// AllEndpoints returns every endpoint in the tree
func (s *BrowseState) AllEndpoints() []extract.Endpoint {
	return extract.Endpoints(s.items)
}

// Toggle applies the checkbox action for the row under the cursor: a
// request row toggles its single endpoint, a folder row toggles its whole
// subtree (all-in unless everything is already selected, then all-out).
func (s *BrowseState) Toggle(sel *selection.Set) {
	row, ok := s.CurrentRow()
	if !ok {
		return
	}

	endpoints := s.RowEndpoints(row)
	if len(endpoints) == 0 {
		return
	}

	state := s.selectionState(endpoints, sel)
	sel.SelectMany(endpoints, s.collection, state != FolderAll)
}

// RowSelection reports how much of a row's subtree is selected
func (s *BrowseState) RowSelection(row Row, sel *selection.Set) FolderSelection {
	return s.selectionState(s.RowEndpoints(row), sel)
}

func (s *BrowseState) selectionState(endpoints []extract.Endpoint, sel *selection.Set) FolderSelection {
	if len(endpoints) == 0 {
		return FolderNone
	}

	selected := 0
	for _, e := range endpoints {
		if sel.Has(selection.Key(s.collection, e)) {
			selected++
		}
	}

	switch selected {
	case 0:
		return FolderNone
	case len(endpoints):
		return FolderAll
	default:
		return FolderPartial
	}
}
