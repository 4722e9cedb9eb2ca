package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_Submit_OnlineAccepted(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{
		submitFn: func(key string, payload []byte) (*api.OrderAck, error) {
			return &api.OrderAck{OrderID: "SO-1", OrderNumber: "SO-00001"}, nil
		},
	}
	svc := NewOrderService(client, newTestStore(t), testLogger())

	result, err := svc.Submit(ctx, testOrder())
	require.NoError(t, err)
	assert.False(t, result.Queued)
	require.NotNil(t, result.Ack)
	assert.Equal(t, "SO-1", result.Ack.OrderID)

	count, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderService_Submit_OfflineQueues(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{} // unreachable server
	svc := NewOrderService(client, newTestStore(t), testLogger())

	result, err := svc.Submit(ctx, testOrder())
	require.NoError(t, err, "a connectivity failure must queue, not error")
	assert.True(t, result.Queued)
	assert.Nil(t, result.Ack)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotEmpty(t, pending[0].IdempotencyKey)

	var payload models.OrderPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, "C1", payload.CustomerID)
}

func TestOrderService_Submit_RemoteRejectionNotQueued(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{
		submitFn: func(key string, payload []byte) (*api.OrderAck, error) {
			return nil, common.ErrRemote
		},
	}
	svc := NewOrderService(client, newTestStore(t), testLogger())

	_, err := svc.Submit(ctx, testOrder())
	require.ErrorIs(t, err, common.ErrRemote)

	count, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "rejections must not be parked in the queue")
}

func TestOrderService_Submit_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(&fakeClient{}, newTestStore(t), testLogger())

	_, err := svc.Submit(ctx, &models.OrderPayload{CustomerID: "C1"})
	require.Error(t, err)
}

func TestOrderService_Drain_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	svc := NewOrderService(client, newTestStore(t), testLogger())

	for _, customer := range []string{"C1", "C2", "C3"} {
		_, err := svc.Queue(ctx, &models.OrderPayload{
			CustomerID: customer,
			Lines:      []models.OrderLine{{SKU: "SKU-1", Qty: 1}},
		})
		require.NoError(t, err)
	}

	// The server refuses C2 but accepts the rest.
	client.submitFn = func(key string, payload []byte) (*api.OrderAck, error) {
		var p models.OrderPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		if p.CustomerID == "C2" {
			return nil, common.ErrRemote
		}
		return &api.OrderAck{OrderID: "SO-" + p.CustomerID}, nil
	}

	result, err := svc.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Submitted)
	assert.Equal(t, 1, result.Failed)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1, "the failed entry stays queued")

	var p models.OrderPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &p))
	assert.Equal(t, "C2", p.CustomerID)
}

func TestOrderService_Drain_ReplaysSameIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	svc := NewOrderService(client, newTestStore(t), testLogger())

	result, err := svc.Submit(ctx, testOrder())
	require.NoError(t, err)
	require.True(t, result.Queued)
	require.Len(t, client.submittedKey, 1)
	key := client.submittedKey[0]

	client.submitFn = func(key string, payload []byte) (*api.OrderAck, error) {
		return &api.OrderAck{OrderID: "SO-1"}, nil
	}
	drained, err := svc.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, drained.Submitted)

	require.Len(t, client.submittedKey, 2)
	assert.Equal(t, key, client.submittedKey[1], "a replay must carry the key of the first attempt")
}

func TestOrderService_QueueSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "fieldsales.db")

	st := store.New(dsn, testLogger())
	svc := NewOrderService(&fakeClient{}, st, testLogger())
	_, err := svc.Queue(ctx, testOrder())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2 := store.New(dsn, testLogger())
	defer st2.Close()
	svc2 := NewOrderService(&fakeClient{}, st2, testLogger())

	count, err := svc2.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
