package identity

import (
	"fmt"
	"strconv"
	"strings"

	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"

	"github.com/ethereum/go-ethereum/common"
)

// Normalizer canonicalizes the two account-identifier forms the ledger
// accepts: Hedera shard.realm.num ids and EVM hex addresses. Canonical forms
// are "0.0.1234" and the EIP-55 checksummed hex string, so equality on the
// output is identity equality.
type Normalizer struct{}

func NewNormalizer() Normalizer {
	return Normalizer{}
}

func (Normalizer) Normalize(account string) (string, error) {
	trimmed := strings.TrimSpace(account)
	if trimmed == "" {
		return "", domainerrors.ErrInvalidIdentity
	}

	if canonical, ok := normalizeHederaID(trimmed); ok {
		return canonical, nil
	}
	if common.IsHexAddress(trimmed) {
		return common.HexToAddress(trimmed).Hex(), nil
	}
	return "", domainerrors.ErrInvalidIdentity
}

func normalizeHederaID(raw string) (string, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return "", false
	}
	nums := make([]uint64, 3)
	for i, part := range parts {
		value, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return "", false
		}
		nums[i] = value
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), true
}
