package model

import "time"

// AccountView is the read projection of one account record.
type AccountView struct {
	Account       string    `json:"account"`
	Owner         string    `json:"owner"`
	PendingOwner  string    `json:"pendingOwner,omitempty"`
	GuardianCount int       `json:"guardianCount"`
	Threshold     int       `json:"threshold"`
	Version       uint64    `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateAccountRequest registers a new account. Guardians lists direct
// identities; DelegatedKeys lists resolver keys (e.g. token names) whose
// current owning identities become guardians alongside the direct ones.
type CreateAccountRequest struct {
	Account       string   `json:"account"`
	Owner         string   `json:"owner"`
	Guardians     []string `json:"guardians,omitempty"`
	DelegatedKeys []string `json:"delegatedKeys,omitempty"`
}

type AddGuardiansRequest struct {
	Account       string   `json:"account"`
	Caller        string   `json:"caller"`
	Guardians     []string `json:"guardians,omitempty"`
	DelegatedKeys []string `json:"delegatedKeys,omitempty"`
}

// RemoveGuardiansRequest removes guardians by registry key (GuardianID hex),
// not by raw identity.
type RemoveGuardiansRequest struct {
	Account     string   `json:"account"`
	Caller      string   `json:"caller"`
	GuardianIDs []string `json:"guardianIDs"`
}

type IsGuardianRequest struct {
	Account    string `json:"account"`
	GuardianID string `json:"guardianID"`
}

type IsGuardianResponse struct {
	Registered bool `json:"registered"`
}

type GuardianParamsRequest struct {
	Account string `json:"account"`
}

type GuardianParamsResponse struct {
	Count     int `json:"count"`
	Threshold int `json:"threshold"`
}

type ProposeTransferRequest struct {
	Account  string `json:"account"`
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

type AcceptTransferRequest struct {
	Account string `json:"account"`
	Caller  string `json:"caller"`
}

// RecoverRequest carries one recovery attempt: the proposed owner plus
// parallel guardian identity and signature arrays, evaluated atomically.
//
// JSON note: Signatures entries are encoded as base64 by encoding/json.
type RecoverRequest struct {
	Account    string   `json:"account"`
	NewOwner   string   `json:"newOwner"`
	Guardians  []string `json:"guardians"`
	Signatures [][]byte `json:"signatures"`
}

type RecoverResponse struct {
	Votes   int         `json:"votes"`
	Account AccountView `json:"account"`
}

// AuthorizeRequest asks for an operation-authorization decision. Caller must
// be the configured entry point; Digest is the raw 32-byte operation digest
// before enveloping.
type AuthorizeRequest struct {
	Account   string `json:"account"`
	Caller    string `json:"caller"`
	Digest    []byte `json:"digest"`
	Signature []byte `json:"signature"`
}

type AuthorizeResponse struct {
	Decision string `json:"decision"`
}

type CheckSignatureRequest struct {
	Account   string `json:"account"`
	Digest    []byte `json:"digest"`
	Signature []byte `json:"signature"`
}

type CheckSignatureResponse struct {
	Valid bool `json:"valid"`
}

type AuthorizeUpgradeRequest struct {
	Account        string `json:"account"`
	Caller         string `json:"caller"`
	Implementation string `json:"implementation"`
}

type AuthorizeUpgradeResponse struct {
	Authorized bool `json:"authorized"`
}

// Call is one opaque pass-through call inside a batch.
type Call struct {
	Target string `json:"target"`
	Data   []byte `json:"data,omitempty"`
}

// CallResult reports one executed batch entry in input order.
type CallResult struct {
	Target string `json:"target"`
	Output []byte `json:"output,omitempty"`
	Err    string `json:"err,omitempty"`
}

type ExecuteBatchRequest struct {
	Account string `json:"account"`
	Caller  string `json:"caller"`
	Calls   []Call `json:"calls"`
}

type ExecuteBatchResponse struct {
	Results []CallResult `json:"results"`
}

type GetAccountRequest struct {
	Account string `json:"account"`
}
