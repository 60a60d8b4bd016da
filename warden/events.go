package warden

import (
	"strconv"

	"xdao.co/warden/account"
	"xdao.co/warden/events"
	"xdao.co/warden/identity"
)

const (
	// EventTypeAccountCreated is emitted when a new account record commits.
	EventTypeAccountCreated = "warden.account.created"
	// EventTypeGuardiansAdded is emitted after a guardian batch registers.
	EventTypeGuardiansAdded = "warden.guardian.added"
	// EventTypeGuardiansRemoved is emitted after a guardian batch clears.
	EventTypeGuardiansRemoved = "warden.guardian.removed"
	// EventTypeTransferProposed marks a staged two-step transfer.
	EventTypeTransferProposed = "warden.transfer.proposed"
	// EventTypeTransferAccepted marks a completed two-step transfer.
	EventTypeTransferAccepted = "warden.transfer.accepted"
	// EventTypeRecoveryExecuted marks a quorum-driven forced transfer.
	EventTypeRecoveryExecuted = "warden.recovery.executed"
	// EventTypeUpgradeAuthorized records a granted upgrade request.
	EventTypeUpgradeAuthorized = "warden.upgrade.authorized"
	// EventTypeBatchExecuted records a forwarded call batch.
	EventTypeBatchExecuted = "warden.batch.executed"
)

func baseAttrs(st *account.State) map[string]string {
	return map[string]string{
		"account": st.ID.String(),
		"version": strconv.FormatUint(st.Version, 10),
	}
}

func newAccountCreatedEvent(st *account.State) events.Event {
	attrs := baseAttrs(st)
	attrs["owner"] = st.Owner.String()
	attrs["count"] = strconv.Itoa(st.Count)
	attrs["threshold"] = strconv.Itoa(st.Threshold)
	return events.Event{Type: EventTypeAccountCreated, Attributes: attrs}
}

func newGuardiansAddedEvent(st *account.State, added int) events.Event {
	attrs := baseAttrs(st)
	attrs["added"] = strconv.Itoa(added)
	attrs["count"] = strconv.Itoa(st.Count)
	attrs["threshold"] = strconv.Itoa(st.Threshold)
	return events.Event{Type: EventTypeGuardiansAdded, Attributes: attrs}
}

func newGuardiansRemovedEvent(st *account.State, removed int) events.Event {
	attrs := baseAttrs(st)
	attrs["removed"] = strconv.Itoa(removed)
	attrs["count"] = strconv.Itoa(st.Count)
	attrs["threshold"] = strconv.Itoa(st.Threshold)
	return events.Event{Type: EventTypeGuardiansRemoved, Attributes: attrs}
}

func newTransferProposedEvent(st *account.State) events.Event {
	attrs := baseAttrs(st)
	attrs["owner"] = st.Owner.String()
	attrs["pendingOwner"] = st.PendingOwner.String()
	return events.Event{Type: EventTypeTransferProposed, Attributes: attrs}
}

func newTransferAcceptedEvent(st *account.State, previousOwner identity.Identity) events.Event {
	attrs := baseAttrs(st)
	attrs["owner"] = st.Owner.String()
	attrs["previousOwner"] = previousOwner.String()
	return events.Event{Type: EventTypeTransferAccepted, Attributes: attrs}
}

func newRecoveryExecutedEvent(st *account.State, previousOwner identity.Identity, votes int) events.Event {
	attrs := baseAttrs(st)
	attrs["owner"] = st.Owner.String()
	attrs["previousOwner"] = previousOwner.String()
	attrs["votes"] = strconv.Itoa(votes)
	attrs["threshold"] = strconv.Itoa(st.Threshold)
	return events.Event{Type: EventTypeRecoveryExecuted, Attributes: attrs}
}

func newUpgradeAuthorizedEvent(st *account.State, implementation identity.Identity) events.Event {
	attrs := baseAttrs(st)
	attrs["owner"] = st.Owner.String()
	attrs["implementation"] = implementation.String()
	return events.Event{Type: EventTypeUpgradeAuthorized, Attributes: attrs}
}

func newBatchExecutedEvent(st *account.State, calls, completed int) events.Event {
	attrs := baseAttrs(st)
	attrs["calls"] = strconv.Itoa(calls)
	attrs["completed"] = strconv.Itoa(completed)
	return events.Event{Type: EventTypeBatchExecuted, Attributes: attrs}
}
