package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repository --

type mockRepo struct {
	docs map[uuid.UUID]*Document
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[uuid.UUID]*Document)}
}

func (m *mockRepo) Create(_ context.Context, d *Document) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.docs[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) GetOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	d, ok := m.docs[id]
	if !ok || d.Deleted {
		return uuid.Nil, ErrNotFound
	}
	return d.OwnerID, nil
}

func (m *mockRepo) ListActiveIDsByOwner(_ context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, d := range m.docs {
		if d.OwnerID == ownerID && !d.Deleted {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

func (m *mockRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	var result []*Document
	for _, d := range m.docs {
		if d.OwnerID == ownerID && !d.Deleted {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	d, ok := m.docs[id]
	if !ok || d.Deleted {
		return ErrNotFound
	}
	d.Deleted = true
	return nil
}

type mockAggregator struct {
	rebuilt []uuid.UUID
}

func (m *mockAggregator) RebuildForOwner(_ context.Context, ownerID uuid.UUID) error {
	m.rebuilt = append(m.rebuilt, ownerID)
	return nil
}

func newTestService(repo Repository, agg Aggregator) *Service {
	return NewService(repo, agg, nil, zerolog.Nop())
}

// -- Tests --

func TestCreateDocument(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil)

	d := &Document{OwnerID: uuid.New(), Title: "Laborbefund 2024"}
	if err := svc.CreateDocument(context.Background(), d); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected document id to be assigned")
	}
}

func TestCreateDocument_MissingOwner(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)

	err := svc.CreateDocument(context.Background(), &Document{Title: "untitled"})
	if err == nil {
		t.Error("expected error for missing owner_id")
	}
}

func TestCreateDocument_MissingTitle(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)

	err := svc.CreateDocument(context.Background(), &Document{OwnerID: uuid.New()})
	if err == nil {
		t.Error("expected error for missing title")
	}
}

func TestDeleteDocument_RebuildsOwnerViews(t *testing.T) {
	repo := newMockRepo()
	agg := &mockAggregator{}
	svc := newTestService(repo, agg)

	owner := uuid.New()
	d := &Document{OwnerID: owner, Title: "report"}
	if err := svc.CreateDocument(context.Background(), d); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	if err := svc.DeleteDocument(context.Background(), d.ID); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if !d.Deleted {
		t.Error("expected document to be soft-deleted")
	}
	if len(agg.rebuilt) != 1 || agg.rebuilt[0] != owner {
		t.Errorf("expected one rebuild for owner %s, got %v", owner, agg.rebuilt)
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAggregator{})

	err := svc.DeleteDocument(context.Background(), uuid.New())
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOwner_DeletedDocument(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockAggregator{})

	d := &Document{OwnerID: uuid.New(), Title: "report"}
	if err := svc.CreateDocument(context.Background(), d); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := svc.DeleteDocument(context.Background(), d.ID); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	if _, err := repo.GetOwner(context.Background(), d.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for deleted document, got %v", err)
	}
}
