package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/warden/model"
	"xdao.co/warden/warden"
)

// Server exposes a warden.Service over the Warden gRPC service. Request and
// reply payloads are the model package's canonical JSON documents.
type Server struct {
	UnimplementedWardenServer
	Service *warden.Service
}

func (s *Server) ready() error {
	if s == nil || s.Service == nil {
		return status.Error(codes.FailedPrecondition, "missing service")
	}
	return nil
}

func decodeRequest(in *wrapperspb.BytesValue, v any) error {
	if err := json.Unmarshal(in.GetValue(), v); err != nil {
		return toStatus(model.NewError(model.ErrInvalidRequest, "malformed request payload: "+err.Error()))
	}
	return nil
}

func encodeReply(v any) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode reply")
	}
	return wrapperspb.Bytes(b), nil
}

// toDigest enforces the fixed digest width at the boundary; the service and
// validator only ever see full 32-byte digests.
func toDigest(b []byte) ([32]byte, error) {
	var d [32]byte
	if len(b) != len(d) {
		return d, model.NewError(model.ErrInvalidRequest,
			fmt.Sprintf("digest must be %d bytes, got %d", len(d), len(b)))
	}
	copy(d[:], b)
	return d, nil
}

func (s *Server) CreateAccount(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.CreateAccountRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	owner, err := model.ToIdentity(req.Owner)
	if err != nil {
		return nil, toStatus(err)
	}
	guardians, err := model.ToIdentities(req.Guardians)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.CreateAccount(acct, owner, guardians, req.DelegatedKeys)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) GetAccount(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.GetAccountRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.GetAccount(acct)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) AddGuardians(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.AddGuardiansRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	guardians, err := model.ToIdentities(req.Guardians)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.AddGuardians(acct, caller, guardians, req.DelegatedKeys)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) RemoveGuardians(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.RemoveGuardiansRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	gids, err := model.ToGuardianIDs(req.GuardianIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.RemoveGuardians(acct, caller, gids)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) IsGuardian(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.IsGuardianRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	gid, err := model.ToGuardianID(req.GuardianID)
	if err != nil {
		return nil, toStatus(err)
	}
	registered, err := s.Service.IsGuardian(acct, gid)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.IsGuardianResponse{Registered: registered})
}

func (s *Server) GuardianParams(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.GuardianParamsRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.Service.GuardianParams(acct)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.GuardianParamsResponse{Count: p.Count, Threshold: p.Threshold})
}

func (s *Server) ProposeTransfer(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.ProposeTransferRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	newOwner, err := model.ToIdentity(req.NewOwner)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.ProposeTransfer(acct, caller, newOwner)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) AcceptTransfer(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.AcceptTransferRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	st, err := s.Service.AcceptTransfer(acct, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.FromState(st))
}

func (s *Server) Recover(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.RecoverRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	newOwner, err := model.ToIdentity(req.NewOwner)
	if err != nil {
		return nil, toStatus(err)
	}
	guardians, err := model.ToIdentities(req.Guardians)
	if err != nil {
		return nil, toStatus(err)
	}
	votes, st, err := s.Service.Recover(acct, newOwner, guardians, req.Signatures)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.RecoverResponse{Votes: votes, Account: model.FromState(st)})
}

func (s *Server) Authorize(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.AuthorizeRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	dig, err := toDigest(req.Digest)
	if err != nil {
		return nil, toStatus(err)
	}
	decision, err := s.Service.Authorize(acct, caller, dig, req.Signature)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.AuthorizeResponse{Decision: decision.String()})
}

func (s *Server) CheckSignature(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.CheckSignatureRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	dig, err := toDigest(req.Digest)
	if err != nil {
		return nil, toStatus(err)
	}
	valid, err := s.Service.CheckSignature(acct, dig, req.Signature)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.CheckSignatureResponse{Valid: valid})
}

func (s *Server) AuthorizeUpgrade(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.AuthorizeUpgradeRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	impl, err := model.ToIdentity(req.Implementation)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.Service.AuthorizeUpgrade(acct, caller, impl); err != nil {
		return nil, toStatus(err)
	}
	return encodeReply(model.AuthorizeUpgradeResponse{Authorized: true})
}

func (s *Server) ExecuteBatch(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	var req model.ExecuteBatchRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	acct, err := model.ToIdentity(req.Account)
	if err != nil {
		return nil, toStatus(err)
	}
	caller, err := model.ToIdentity(req.Caller)
	if err != nil {
		return nil, toStatus(err)
	}
	calls := make([]warden.Call, 0, len(req.Calls))
	for _, c := range req.Calls {
		target, err := model.ToIdentity(c.Target)
		if err != nil {
			return nil, toStatus(err)
		}
		calls = append(calls, warden.Call{Target: target, Data: c.Data})
	}
	results, err := s.Service.ExecuteBatch(acct, caller, calls)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]model.CallResult, 0, len(results))
	for _, r := range results {
		cr := model.CallResult{Target: r.Target.String(), Output: r.Output}
		if r.Err != nil {
			cr.Err = r.Err.Error()
		}
		out = append(out, cr)
	}
	return encodeReply(model.ExecuteBatchResponse{Results: out})
}
