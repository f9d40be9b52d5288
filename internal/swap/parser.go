package swap

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// SwapEventSignature is the canonical signature of the Uniswap V3 Swap event.
const SwapEventSignature = "Swap(address,address,int256,int256,uint160,uint128,int24)"

// SwapTopic is the keccak256 hash of SwapEventSignature, the first topic of
// every Swap log.
var SwapTopic = crypto.Keccak256Hash([]byte(SwapEventSignature))

const (
	// Swap logs carry the event signature plus two indexed addresses.
	expectedTopicsCount = 3

	// Non-indexed params: amount0, amount1, sqrtPriceX96, liquidity, tick.
	// Each occupies one 32-byte ABI word.
	expectedDataSize = 5 * 32

	// Token decimals in the DAI/USDC pool: amount0 is DAI, amount1 is USDC.
	daiDecimals  = 18
	usdcDecimals = 6

	// Amounts are truncated to two decimal places for output and storage.
	displayPrecision = 2
)

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

// Parser decodes Swap logs into Events.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a single Swap log. It fails on malformed logs and on swaps
// whose amounts do not have opposite signs; such a failure is fatal to the
// surrounding stream, the parser never guesses.
func (p *Parser) Parse(l types.Log) (Event, error) {
	if len(l.Topics) != expectedTopicsCount {
		return Event{}, fmt.Errorf("expected %d topics, got %d", expectedTopicsCount, len(l.Topics))
	}
	if l.Topics[0] != SwapTopic {
		return Event{}, fmt.Errorf("unexpected event topic %s", l.Topics[0].Hex())
	}
	if len(l.Data) != expectedDataSize {
		return Event{}, fmt.Errorf("expected %d bytes of data, got %d", expectedDataSize, len(l.Data))
	}

	sender := common.BytesToAddress(l.Topics[1].Bytes())
	recipient := common.BytesToAddress(l.Topics[2].Bytes())

	amount0 := decodeInt256(l.Data[0:32])
	amount1 := decodeInt256(l.Data[32:64])

	amounts := Amounts{
		Dai:  scaleAmount(amount0, daiDecimals),
		Usdc: scaleAmount(amount1, usdcDecimals),
	}

	direction, err := swapDirection(amounts)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Sender:    sender,
		Recipient: recipient,
		Direction: direction,
		Amounts: Amounts{
			Dai:  amounts.Dai.Abs(),
			Usdc: amounts.Usdc.Abs(),
		},
		TxHash:   l.TxHash,
		LogIndex: l.Index,
	}, nil
}

// swapDirection derives the trade direction from the amount signs. The pool
// reports the token it received as positive and the token it paid out as
// negative, so a valid swap always has amounts of opposite signs.
func swapDirection(amounts Amounts) (Direction, error) {
	daiNegative := amounts.Dai.Sign() < 0
	usdcNegative := amounts.Usdc.Sign() < 0

	switch {
	case !daiNegative && usdcNegative:
		return DirectionDaiToUsdc, nil
	case daiNegative && !usdcNegative:
		return DirectionUsdcToDai, nil
	case !daiNegative:
		return "", fmt.Errorf("swap amounts must have distinct signs, but both are positive")
	default:
		return "", fmt.Errorf("swap amounts must have distinct signs, but both are negative")
	}
}

// decodeInt256 interprets a 32-byte ABI word as a two's-complement int256.
func decodeInt256(word []byte) *big.Int {
	n := new(big.Int).SetBytes(word)
	if n.Bit(255) == 1 {
		n.Sub(n, twoPow256)
	}
	return n
}

// scaleAmount converts a raw token amount with the given number of decimals
// into a decimal truncated to displayPrecision places.
func scaleAmount(n *big.Int, decimals uint) decimal.Decimal {
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals-displayPrecision)), nil)

	// Quo truncates toward zero, dropping sub-precision digits.
	truncated := new(big.Int).Quo(n, divisor)

	return decimal.NewFromBigInt(truncated, -displayPrecision)
}
