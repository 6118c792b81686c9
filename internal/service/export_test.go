package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/store"
	"github.com/pageza/glucolog/backend/internal/testdb"
)

type fakeObjects struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

func (f *fakeObjects) GeneratePresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example/" + key + "?signed", nil
}

func TestExport(t *testing.T) {
	s := store.New(testdb.SQLite(t))
	seed(t, s)
	objects := &fakeObjects{}

	svc := NewExportService(s, objects, zap.NewNop()).WithClock(fixedClock("2024-03-05 02:00:00"))
	res, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "exports/2024-03-05/"), res.Key)
	assert.True(t, strings.HasSuffix(res.Key, ".json"), res.Key)
	assert.Contains(t, res.URL, res.Key)
	assert.Equal(t, int64(2), res.Counts["glucose"])
	assert.Equal(t, int64(0), res.Counts["event"])

	body, ok := objects.objects[res.Key]
	require.True(t, ok)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, `"2024-03-05 02:00:00"`, string(doc["exported_at"]))
	assert.Equal(t, "[]", string(doc["event"]))
	assert.Contains(t, string(doc["nutrition"]), `"nutrition_name":"Rice"`)
}

func TestExportErrors(t *testing.T) {
	s := store.New(testdb.SQLite(t))

	_, err := NewExportService(s, nil, zap.NewNop()).Export(context.Background())
	assert.ErrorIs(t, err, ErrExportDisabled)

	boom := errors.New("boom")
	_, err = NewExportService(s, &fakeObjects{putErr: boom}, zap.NewNop()).Export(context.Background())
	assert.ErrorIs(t, err, boom)
}
