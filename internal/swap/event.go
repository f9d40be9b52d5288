// Package swap defines the decoded Uniswap V3 swap event and the parser that
// produces it from raw logs of the DAI/USDC pool.
package swap

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Direction indicates which token was sold into the pool.
type Direction string

const (
	DirectionDaiToUsdc Direction = "dai_to_usdc"
	DirectionUsdcToDai Direction = "usdc_to_dai"
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// ParseDirection parses a direction string as used in queries and storage.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionDaiToUsdc:
		return DirectionDaiToUsdc, nil
	case DirectionUsdcToDai:
		return DirectionUsdcToDai, nil
	default:
		return "", fmt.Errorf("invalid direction %q, must be %q or %q",
			s, DirectionDaiToUsdc, DirectionUsdcToDai)
	}
}

// Amounts holds the absolute token amounts of a swap, truncated to two
// decimal places.
type Amounts struct {
	Dai  decimal.Decimal
	Usdc decimal.Decimal
}

// Event is a decoded Swap log.
type Event struct {
	Sender    common.Address
	Recipient common.Address
	Direction Direction
	Amounts   Amounts

	// Provenance of the log within its block.
	TxHash   common.Hash
	LogIndex uint
}

// String renders the event for human-readable sink output.
func (e Event) String() string {
	switch e.Direction {
	case DirectionDaiToUsdc:
		return fmt.Sprintf("%s swapped %s DAI for %s USDC (recipient %s)",
			e.Sender.Hex(), e.Amounts.Dai, e.Amounts.Usdc, e.Recipient.Hex())
	case DirectionUsdcToDai:
		return fmt.Sprintf("%s swapped %s USDC for %s DAI (recipient %s)",
			e.Sender.Hex(), e.Amounts.Usdc, e.Amounts.Dai, e.Recipient.Hex())
	default:
		return fmt.Sprintf("%s swapped with %s (unknown direction)", e.Sender.Hex(), e.Recipient.Hex())
	}
}
