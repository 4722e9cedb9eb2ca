package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"github.com/google/uuid"
)

// DrainResult summarizes one mutation-queue drain pass.
type DrainResult struct {
	Submitted int
	Failed    int
}

// SubmitResult reports how an order left the device: accepted remotely, or
// parked in the queue for a later drain.
type SubmitResult struct {
	Queued bool
	Seq    int64
	Ack    *api.OrderAck
}

// OrderService owns the write path: immediate submission while online,
// durable queueing while offline, and the FIFO drain.
type OrderService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

func NewOrderService(client api.Client, st *store.Store, log logging.Logger) *OrderService {
	return &OrderService{client: client, store: st, log: log}
}

// Submit validates and serializes the payload, then tries the remote
// endpoint. A connectivity failure is not an error: the order is queued and
// will be replayed on the next drain, carrying the same idempotency key.
// Remote rejections (auth, validation, server error) are returned to the
// caller for an explicit retry and are NOT queued, since resubmitting an
// order the server already refused would fail again.
func (s *OrderService) Submit(ctx context.Context, payload *models.OrderPayload) (*SubmitResult, error) {
	key, body, err := s.prepare(payload)
	if err != nil {
		return nil, err
	}

	ack, err := s.client.SubmitOrder(ctx, key, body)
	if err == nil {
		s.log.Info(ctx, "order submitted", "order_id", ack.OrderID)
		return &SubmitResult{Ack: ack}, nil
	}
	if !errors.Is(err, common.ErrUnavailable) {
		return nil, fmt.Errorf("order rejected: %w", err)
	}

	seq, qerr := s.enqueue(ctx, key, body)
	if qerr != nil {
		return nil, qerr
	}
	s.log.Info(ctx, "offline, order queued", "seq", seq)
	return &SubmitResult{Queued: true, Seq: seq}, nil
}

// Queue stores the order without attempting a submission. Used when the
// caller already knows it is offline.
func (s *OrderService) Queue(ctx context.Context, payload *models.OrderPayload) (int64, error) {
	key, body, err := s.prepare(payload)
	if err != nil {
		return 0, err
	}
	return s.enqueue(ctx, key, body)
}

// prepare validates the payload and resolves it into plain values (key +
// serialized body) before any store scope opens.
func (s *OrderService) prepare(payload *models.OrderPayload) (string, []byte, error) {
	if err := payload.Validate(); err != nil {
		return "", nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}
	return uuid.NewString(), body, nil
}

func (s *OrderService) enqueue(ctx context.Context, key string, body []byte) (int64, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	seq, err := outbox.NewSQLiteRepository(db).Enqueue(ctx, key, body)
	if err != nil {
		return 0, fmt.Errorf("failed to queue order: %w", store.Classify(err))
	}
	return seq, nil
}

// Pending lists queued orders in drain order.
func (s *OrderService) Pending(ctx context.Context) ([]models.PendingMutation, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return outbox.NewSQLiteRepository(db).ListPending(ctx)
}

// PendingCount reports the queue depth.
func (s *OrderService) PendingCount(ctx context.Context) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	return outbox.NewSQLiteRepository(db).Count(ctx)
}

// Drain replays queued orders strictly in FIFO order, one in flight at a
// time. Each entry is removed only after the server accepts it; a failed
// entry stays queued and the drain moves on, so one bad submission never
// blocks the rest.
func (s *OrderService) Drain(ctx context.Context) (*DrainResult, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	repo := outbox.NewSQLiteRepository(db)

	pending, err := repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &DrainResult{}
	for _, m := range pending {
		if _, err := s.client.SubmitOrder(ctx, m.IdempotencyKey, m.Payload); err != nil {
			s.log.Warn(ctx, "queued order submission failed", "seq", m.Seq, "error", err)
			result.Failed++
			continue
		}
		if err := repo.Remove(ctx, m.Seq); err != nil {
			// The server accepted the order but local cleanup failed; the
			// entry will be resubmitted with the same idempotency key on
			// the next drain.
			s.log.Error(ctx, "failed to remove acknowledged order", "seq", m.Seq, "error", err)
			result.Failed++
			continue
		}
		result.Submitted++
	}

	s.log.Info(ctx, "queue drain complete", "submitted", result.Submitted, "failed", result.Failed)
	return result, nil
}
