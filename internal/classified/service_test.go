// AngelaMos | 2026
// service_test.go

package classified

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josealexandro/chaama/internal/core"
)

type memoryRepository struct {
	mu       sync.Mutex
	items    map[string]Classified
	lastList ListParams
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: make(map[string]Classified)}
}

func (m *memoryRepository) Create(_ context.Context, c *Classified) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = *c
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*Classified, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get classified: %w", core.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryRepository) Update(_ context.Context, id, ownerID string, p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok || c.OwnerID != ownerID {
		return fmt.Errorf("update classified: %w", core.ErrNotFound)
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.City != nil {
		c.City = *p.City
		c.CityKey = *p.CityKey
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	m.items[id] = c
	return nil
}

func (m *memoryRepository) List(_ context.Context, params ListParams) ([]Classified, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = params
	return nil, 0, nil
}

func (m *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Classified, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Classified
	for _, c := range m.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newClassified() CreateClassifiedRequest {
	return CreateClassifiedRequest{
		Title:       "Aulas de violão",
		Description: "Aulas para iniciantes aos sábados",
		ImageRef:    "https://cdn.example.com/violao.jpg",
		City:        " Belém ",
	}
}

func TestCreateClassified(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), "u1", newClassified())
	require.NoError(t, err)
	assert.True(t, c.Active)
	assert.Equal(t, "Belém", c.City)
	assert.Equal(t, "belem", c.CityKey)
	assert.Nil(t, c.LinkURL)
}

func TestUpdateClassifiedOwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(repo)

	c, err := svc.Create(ctx, "u1", newClassified())
	require.NoError(t, err)

	title := "Aulas de guitarra"
	_, err = svc.Update(ctx, "u2", c.ID, UpdateClassifiedRequest{Title: &title})
	assert.ErrorIs(t, err, core.ErrForbidden)

	off := false
	city := "Ananindeua"
	updated, err := svc.Update(ctx, "u1", c.ID, UpdateClassifiedRequest{Title: &title, City: &city, Active: &off})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "ananindeua", updated.CityKey)
	assert.False(t, updated.Active)
	assert.Equal(t, "Aulas para iniciantes aos sábados", updated.Description)

	blank := "  "
	_, err = svc.Update(ctx, "u1", c.ID, UpdateClassifiedRequest{City: &blank})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Update(ctx, "u1", "ghost", UpdateClassifiedRequest{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListNormalizesCity(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListParams{City: "SÃO LUÍS"})
	require.NoError(t, err)
	assert.Equal(t, "sao luis", repo.lastList.City)
	assert.Equal(t, core.DefaultPageSize, repo.lastList.PageSize)
}
