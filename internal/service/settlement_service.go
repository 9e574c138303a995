package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// RecordSettlement records a payment already made between two members.
// FromUserID defaults to the caller.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	msg := req.Msg
	userID, err := authorizeGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}

	from := msg.FromUserID
	if from == "" {
		from = userID
	}
	if err := calculator.ValidateAmount(msg.Amount); err != nil {
		return nil, toConnectError(fmt.Errorf("settlement: %w", err))
	}
	if from == msg.ToUserID {
		return nil, invalidArgument("cannot settle with yourself")
	}

	roster, err := rosterOf(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := namesOf(roster)
	for _, id := range []string{from, msg.ToUserID} {
		if _, ok := names[id]; !ok {
			return nil, invalidArgument("user %q is not a group member", id)
		}
	}

	now := time.Now().Unix()
	settlement := &models.Settlement{
		ID:         uuid.New().String(),
		GroupID:    msg.GroupID,
		FromUserID: from,
		ToUserID:   msg.ToUserID,
		Amount:     msg.Amount,
		Status:     models.SettlementStatusSettled,
		CreatedAt:  now,
		SettledAt:  now,
		CreatedBy:  userID,
		Note:       strings.TrimSpace(msg.Note),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
	)
	return connect.NewResponse(&api.SettlementResponse{Settlement: settlementToAPI(settlement, names)}), nil
}

// ListSettlements returns every settlement recorded in the group.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if _, err := authorizeGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	roster, err := rosterOf(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := namesOf(roster)

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st, names)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}
