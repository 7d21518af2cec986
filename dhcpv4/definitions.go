// Package dhcpv4 implements the DHCP client state machine of spec.md §4.6:
// DISCOVER/OFFER/REQUEST/ACK acquisition followed by an optional lease
// renewal loop, driven entirely by a one-second tick the caller supplies.
package dhcpv4

import "github.com/slashdev/slashnet"

// State is the client's position in the acquisition/renewal state machine.
type State uint8

const (
	Idle State = iota
	Waiting
	Offered
	Requested
	Bound
	Renewing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Offered:
		return "offered"
	case Requested:
		return "requested"
	case Bound:
		return "bound"
	case Renewing:
		return "renewing"
	default:
		return "invalid"
	}
}

// BOOTP op codes.
const (
	opRequest = 1
	opReply   = 2
)

// MessageType is DHCP option 53's value.
type MessageType uint8

const (
	msgDiscover MessageType = 1
	msgOffer    MessageType = 2
	msgRequest  MessageType = 3
	msgDecline  MessageType = 4
	msgAck      MessageType = 5
	msgNak      MessageType = 6
	msgRelease  MessageType = 7
	msgInform   MessageType = 8
)

// OptNum is a BOOTP/DHCP option tag (RFC 1533).
type OptNum uint8

const (
	optSubnetMask         OptNum = 1
	optRouter             OptNum = 3
	optHostName           OptNum = 12
	optRequestedIPAddress OptNum = 50
	optIPAddressLeaseTime OptNum = 51
	optMessageType        OptNum = 53
	optServerID           OptNum = 54
	optParameterReqList   OptNum = 55
	optEnd                OptNum = 255
)

const (
	clientPort = 68
	serverPort = 67

	// magicCookie is the fixed BOOTP vendor-extension marker at offset 236,
	// per spec.md §4.6.
	magicCookie uint32 = 0x63825363

	// idleWaitSeconds is how long Idle waits before the first DISCOVER.
	idleWaitSeconds = 3
	// noOfferRetrySeconds is how long Waiting/Requested wait before
	// resending, per spec.md §4.6's "same elapsed-seconds mechanism".
	noOfferRetrySeconds = 30
	// renewRetryMinutes is the Renewing retry interval on a missed ACK.
	renewRetryMinutes = 5
	// renewThresholdMinutes triggers Bound -> Renewing.
	renewThresholdMinutes = 3
	// minLeaseMinutes is the floor spec.md §8's invariant 5/scenario clamps to.
	minLeaseMinutes = 5
)

var broadcastIP = slashnet.IP{255, 255, 255, 255}
