package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"

	"exifimage/types"
)

type memoryStore struct {
	mu          sync.Mutex
	nodes       []types.CollectionNode
	images      map[int64]types.ImageRecord
	tags        map[int64]map[string]struct{}
	saves       int
	failOnSave  int
	rules       []types.TransformationRule
	defaults    []types.DefaultValue
	setups      []types.TransformationSetup
	ruleQueries int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nodes:  []types.CollectionNode{{ID: 1, Name: "Root"}},
		images: make(map[int64]types.ImageRecord),
		tags:   make(map[int64]map[string]struct{}),
	}
}

func (m *memoryStore) GetRoot(ctx context.Context) (types.CollectionNode, error) {
	return m.nodes[0], nil
}

func (m *memoryStore) GetOrCreateChild(ctx context.Context, parent types.CollectionNode, name string) (types.CollectionNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.nodes {
		if n.ParentID == parent.ID && n.Name == name {
			return n, nil
		}
	}
	node := types.CollectionNode{ID: int64(len(m.nodes) + 1), ParentID: parent.ID, Name: name, Depth: parent.Depth + 1}
	m.nodes = append(m.nodes, node)
	return node, nil
}

func (m *memoryStore) SaveImage(ctx context.Context, rec *types.ImageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failOnSave != 0 && m.saves == m.failOnSave {
		return &types.PersistenceError{Op: "save image", Err: errors.New("disk full")}
	}
	if rec.ID == 0 {
		rec.ID = int64(len(m.images) + 1)
	}
	m.images[rec.ID] = *rec
	return nil
}

func (m *memoryStore) AddTag(ctx context.Context, rec *types.ImageRecord, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tags[rec.ID] == nil {
		m.tags[rec.ID] = make(map[string]struct{})
	}
	if _, ok := m.tags[rec.ID][tag]; !ok {
		m.tags[rec.ID][tag] = struct{}{}
		rec.Tags = append(rec.Tags, tag)
	}
	return nil
}

func (m *memoryStore) RulesFor(ctx context.Context, userID int64) ([]types.TransformationRule, error) {
	m.ruleQueries++
	return m.rules, nil
}

func (m *memoryStore) DefaultsFor(ctx context.Context, userID int64) ([]types.DefaultValue, error) {
	return m.defaults, nil
}

func (m *memoryStore) SetupFor(ctx context.Context, userID int64, cameraMake, cameraModel string) (*types.TransformationSetup, error) {
	for i := range m.setups {
		if strings.EqualFold(m.setups[i].CameraMake, cameraMake) && strings.EqualFold(m.setups[i].CameraModel, cameraModel) {
			return &m.setups[i], nil
		}
	}
	return nil, types.ErrNoSetup
}

func (m *memoryStore) SetupsFor(ctx context.Context, userID int64) ([]types.TransformationSetup, error) {
	return m.setups, nil
}

func (m *memoryStore) path(id int64) []string {
	var names []string
	for id > 1 {
		n := m.nodes[id-1]
		names = append([]string{n.Name}, names...)
		id = n.ParentID
	}
	return names
}

type staticExtractor struct {
	raw   types.RawMetadata
	err   error
	calls int
}

func (e *staticExtractor) Extract(ctx context.Context, path string) (types.RawMetadata, error) {
	e.calls++
	return e.raw, e.err
}
