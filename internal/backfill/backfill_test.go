package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

type fakeStore struct {
	pending   []repository.PendingImage
	listErr   error
	attached  map[uint64]string
	attachErr map[uint64]error
}

func (f *fakeStore) ListPendingImages(_ context.Context, limit int) ([]repository.PendingImage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeStore) AttachQRImage(_ context.Context, id uint64, image string) error {
	if err := f.attachErr[id]; err != nil {
		return err
	}
	if f.attached == nil {
		f.attached = map[uint64]string{}
	}
	f.attached[id] = image
	return nil
}

type stubEncoder struct{ failOn string }

func (s stubEncoder) Encode(payload string) (string, error) {
	if payload == s.failOn {
		return "", errors.New("encode failed")
	}
	return "img:" + payload, nil
}

func TestRunRepairsAllPending(t *testing.T) {
	store := &fakeStore{pending: []repository.PendingImage{
		{ID: 1, QRData: "a"},
		{ID: 2, QRData: "b"},
	}}
	n := Run(context.Background(), store, stubEncoder{})
	assert.Equal(t, 2, n)
	assert.Equal(t, "img:a", store.attached[1])
	assert.Equal(t, "img:b", store.attached[2])
}

func TestRunSkipsFailuresAndContinues(t *testing.T) {
	store := &fakeStore{
		pending:   []repository.PendingImage{{ID: 1, QRData: "bad"}, {ID: 2, QRData: "ok"}, {ID: 3, QRData: "ok2"}},
		attachErr: map[uint64]error{3: errors.New("gone")},
	}
	n := Run(context.Background(), store, stubEncoder{failOn: "bad"})
	assert.Equal(t, 1, n)
	assert.NotContains(t, store.attached, uint64(1))
	assert.Equal(t, "img:ok", store.attached[2])
}

func TestRunListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	assert.Equal(t, 0, Run(context.Background(), store, stubEncoder{}))
}

func TestRunNothingPending(t *testing.T) {
	assert.Equal(t, 0, Run(context.Background(), &fakeStore{}, stubEncoder{}))
}
