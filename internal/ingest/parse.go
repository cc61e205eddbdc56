package ingest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddresses converts hex pool addresses, rejecting malformed entries.
func ParseAddresses(raw []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(raw))
	for _, s := range raw {
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		addresses = append(addresses, common.HexToAddress(s))
	}
	return addresses, nil
}
