// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ownership implements two-phase transfer of administrative
// control. The current owner proposes a successor; control moves only
// when the successor accepts. A mistyped successor therefore never
// strands the record: the owner can cancel or propose again.
package ownership

import (
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
)

// Transfer is the transfer state of a Control: NoPendingTransfer or
// PendingTransfer. The interface is sealed.
type Transfer interface {
	isTransfer()
}

// NoPendingTransfer means no successor has been proposed.
type NoPendingTransfer struct{}

// PendingTransfer names the proposed successor.
type PendingTransfer struct {
	Owner identity.Identity
}

func (NoPendingTransfer) isTransfer() {}
func (PendingTransfer) isTransfer()   {}

// Control is the owner and pending-owner pair embedded in a record.
// Its fields flatten into the enclosing record's encoding.
type Control struct {
	Owner        identity.Identity  `cbor:"owner" json:"owner"`
	PendingOwner *identity.Identity `cbor:"pending_owner,omitempty" json:"pending_owner,omitempty"`
}

// New returns a Control owned by owner with nothing pending.
func New(owner identity.Identity) Control {
	return Control{Owner: owner}
}

// Transfer returns the current transfer state.
func (c Control) Transfer() Transfer {
	if c.PendingOwner == nil {
		return NoPendingTransfer{}
	}
	return PendingTransfer{Owner: *c.PendingOwner}
}

// Require fails Unauthorized unless caller is the owner. action names
// the attempted operation in the message.
func (c Control) Require(caller identity.Identity, action string) error {
	if caller != c.Owner {
		return fault.Errorf(fault.Unauthorized, "%s requires owner %s, signer is %s", action, c.Owner, caller)
	}
	return nil
}

// Propose records next as the pending owner, replacing any earlier
// proposal.
func (c *Control) Propose(caller, next identity.Identity) error {
	if err := c.Require(caller, "transfer_ownership"); err != nil {
		return err
	}
	if next.IsZero() {
		return fault.Errorf(fault.InvalidConfig, "transfer_ownership to the zero identity")
	}
	c.PendingOwner = &next
	return nil
}

// Accept promotes caller to owner. The pending proposal is consumed,
// so a second Accept fails NoPendingTransfer.
func (c *Control) Accept(caller identity.Identity) error {
	switch transfer := c.Transfer().(type) {
	case NoPendingTransfer:
		return fault.Errorf(fault.NoPendingTransfer, "accept_ownership with no pending transfer")
	case PendingTransfer:
		if caller != transfer.Owner {
			return fault.Errorf(fault.Unauthorized, "accept_ownership by %s, pending owner is %s", caller, transfer.Owner)
		}
		c.Owner = transfer.Owner
		c.PendingOwner = nil
		return nil
	default:
		panic("ownership: unhandled transfer state")
	}
}

// Cancel withdraws the pending proposal.
func (c *Control) Cancel(caller identity.Identity) error {
	if err := c.Require(caller, "cancel_transfer"); err != nil {
		return err
	}
	if _, pending := c.Transfer().(PendingTransfer); !pending {
		return fault.Errorf(fault.NoPendingTransfer, "cancel_transfer with no pending transfer")
	}
	c.PendingOwner = nil
	return nil
}
