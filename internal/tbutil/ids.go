package tbutil

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// Ledger and code stamped on every account and transfer the journal creates.
const (
	DeliveryLedger uint32 = 1
	DeliveryCode   uint16 = 1
)

const (
	linkAccountPrefix    = "acct:link:"
	sinkAccountPrefix    = "acct:sink:"
	deliveryTransferPref = "xfer:delivery:"
)

// ID128 deterministically maps a string label to a TigerBeetle Uint128.
func ID128(label string) tbtypes.Uint128 {
	sum := sha256.Sum256([]byte(label))
	var raw [16]byte
	copy(raw[:], sum[:16])
	if isZero(raw) || isMax(raw) {
		raw[0] ^= 0x01
	}
	return tbtypes.BytesToUint128(raw)
}

// LinkAccountID returns the account debited for units leaving a link in a run.
func LinkAccountID(runID, link string) tbtypes.Uint128 {
	return ID128(linkAccountPrefix + runID + ":" + link)
}

// SinkAccountID returns the account credited for units reaching a sink in a run.
func SinkAccountID(runID, sink string) tbtypes.Uint128 {
	return ID128(sinkAccountPrefix + runID + ":" + sink)
}

// DeliveryTransferID returns the transfer ID for one delivery.
func DeliveryTransferID(deliveryID string) tbtypes.Uint128 {
	return ID128(deliveryTransferPref + deliveryID)
}

// Uint128ToUint64 converts a TigerBeetle Uint128 to uint64 and panics on overflow.
func Uint128ToUint64(value tbtypes.Uint128) uint64 {
	bytes := value.Bytes()
	high := binary.LittleEndian.Uint64(bytes[8:])
	if high != 0 {
		panic(fmt.Errorf("uint128 overflows uint64"))
	}
	return binary.LittleEndian.Uint64(bytes[:8])
}

func isZero(raw [16]byte) bool {
	for _, b := range raw {
		if b != 0 {
			return false
		}
	}
	return true
}

func isMax(raw [16]byte) bool {
	for _, b := range raw {
		if b != 0xFF {
			return false
		}
	}
	return true
}
