package rpc

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/warden/model"
)

// Client is a typed client over the Warden gRPC service. Errors returned by
// the server arrive reconstructed: account taxonomy errors keep their Kind and
// Reason, storage sentinels compare with errors.Is.
type Client struct {
	cc     *grpc.ClientConn
	client WardenClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Token, when non-empty, is attached to every RPC as a bearer credential.
	Token string
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	if opts.Token != "" {
		dialOpts = append(dialOpts, grpc.WithUnaryInterceptor(bearerInterceptor(opts.Token)))
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewWardenClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// roundTrip runs one RPC: request struct in, reply struct out, both as JSON
// inside BytesValue. A nil reply discards the payload.
func (c *Client) roundTrip(req, reply any, call func(context.Context, *wrapperspb.BytesValue, ...grpc.CallOption) (*wrapperspb.BytesValue, error)) error {
	if c == nil || c.client == nil {
		return model.NewError(model.ErrInternal, "client is not connected")
	}
	b, err := json.Marshal(req)
	if err != nil {
		return model.NewError(model.ErrInvalidRequest, "encode request: "+err.Error())
	}

	ctx, cancel := c.ctx()
	defer cancel()

	out, err := call(ctx, wrapperspb.Bytes(b))
	if err != nil {
		return fromStatus(err)
	}
	if reply == nil {
		return nil
	}
	if err := json.Unmarshal(out.GetValue(), reply); err != nil {
		return model.NewError(model.ErrInternal, "malformed reply payload: "+err.Error())
	}
	return nil
}

func (c *Client) CreateAccount(req model.CreateAccountRequest) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(req, &view, c.client.CreateAccount); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) GetAccount(accountID string) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(model.GetAccountRequest{Account: accountID}, &view, c.client.GetAccount); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) AddGuardians(req model.AddGuardiansRequest) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(req, &view, c.client.AddGuardians); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) RemoveGuardians(req model.RemoveGuardiansRequest) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(req, &view, c.client.RemoveGuardians); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) IsGuardian(accountID, guardianID string) (bool, error) {
	var reply model.IsGuardianResponse
	req := model.IsGuardianRequest{Account: accountID, GuardianID: guardianID}
	if err := c.roundTrip(req, &reply, c.client.IsGuardian); err != nil {
		return false, err
	}
	return reply.Registered, nil
}

func (c *Client) GuardianParams(accountID string) (model.GuardianParamsResponse, error) {
	var reply model.GuardianParamsResponse
	if err := c.roundTrip(model.GuardianParamsRequest{Account: accountID}, &reply, c.client.GuardianParams); err != nil {
		return model.GuardianParamsResponse{}, err
	}
	return reply, nil
}

func (c *Client) ProposeTransfer(req model.ProposeTransferRequest) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(req, &view, c.client.ProposeTransfer); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) AcceptTransfer(req model.AcceptTransferRequest) (model.AccountView, error) {
	var view model.AccountView
	if err := c.roundTrip(req, &view, c.client.AcceptTransfer); err != nil {
		return model.AccountView{}, err
	}
	return view, nil
}

func (c *Client) Recover(req model.RecoverRequest) (model.RecoverResponse, error) {
	var reply model.RecoverResponse
	if err := c.roundTrip(req, &reply, c.client.Recover); err != nil {
		return model.RecoverResponse{}, err
	}
	return reply, nil
}

// Authorize returns the decision string ("accepted" or "rejected").
func (c *Client) Authorize(req model.AuthorizeRequest) (string, error) {
	var reply model.AuthorizeResponse
	if err := c.roundTrip(req, &reply, c.client.Authorize); err != nil {
		return "", err
	}
	return reply.Decision, nil
}

func (c *Client) CheckSignature(req model.CheckSignatureRequest) (bool, error) {
	var reply model.CheckSignatureResponse
	if err := c.roundTrip(req, &reply, c.client.CheckSignature); err != nil {
		return false, err
	}
	return reply.Valid, nil
}

func (c *Client) AuthorizeUpgrade(req model.AuthorizeUpgradeRequest) error {
	return c.roundTrip(req, nil, c.client.AuthorizeUpgrade)
}

func (c *Client) ExecuteBatch(req model.ExecuteBatchRequest) ([]model.CallResult, error) {
	var reply model.ExecuteBatchResponse
	if err := c.roundTrip(req, &reply, c.client.ExecuteBatch); err != nil {
		return nil, err
	}
	return reply.Results, nil
}
