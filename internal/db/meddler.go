package db

import (
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
	"github.com/shopspring/decimal"
)

func init() {
	meddler.Register("address", AddressMeddler{})
	meddler.Register("hash", HashMeddler{})
	meddler.Register("decimal", DecimalMeddler{})
}

// AddressMeddler converts between common.Address and its hex string column.
type AddressMeddler struct{}

func (AddressMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

func (AddressMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	ptr, ok := fieldAddr.(*common.Address)
	if !ok {
		return fmt.Errorf("expected *common.Address, got %T", fieldAddr)
	}
	if !ns.Valid {
		*ptr = common.Address{}
		return nil
	}
	*ptr = common.HexToAddress(ns.String)
	return nil
}

func (AddressMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	address, ok := field.(common.Address)
	if !ok {
		return nil, fmt.Errorf("expected common.Address, got %T", field)
	}
	return address.Hex(), nil
}

// HashMeddler converts between common.Hash and its hex string column.
type HashMeddler struct{}

func (HashMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

func (HashMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	ptr, ok := fieldAddr.(*common.Hash)
	if !ok {
		return fmt.Errorf("expected *common.Hash, got %T", fieldAddr)
	}
	if !ns.Valid {
		*ptr = common.Hash{}
		return nil
	}
	*ptr = common.HexToHash(ns.String)
	return nil
}

func (HashMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	hash, ok := field.(common.Hash)
	if !ok {
		return nil, fmt.Errorf("expected common.Hash, got %T", field)
	}
	return hash.Hex(), nil
}

// DecimalMeddler converts between decimal.Decimal and its string column.
// Amounts are stored as strings so no precision is lost in SQLite.
type DecimalMeddler struct{}

func (DecimalMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

func (DecimalMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	ptr, ok := fieldAddr.(*decimal.Decimal)
	if !ok {
		return fmt.Errorf("expected *decimal.Decimal, got %T", fieldAddr)
	}
	if !ns.Valid {
		*ptr = decimal.Zero
		return nil
	}

	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", ns.String, err)
	}
	*ptr = d
	return nil
}

func (DecimalMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	d, ok := field.(decimal.Decimal)
	if !ok {
		return nil, fmt.Errorf("expected decimal.Decimal, got %T", field)
	}
	return d.String(), nil
}
