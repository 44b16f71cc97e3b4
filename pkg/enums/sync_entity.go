package enums

import "fmt"

// SyncEntity identifies which master-data table a sync operation targets.
type SyncEntity string

const (
	SyncEntityProduct      SyncEntity = "PRODUCT"
	SyncEntityParty        SyncEntity = "PARTY"
	SyncEntityPartyAddress SyncEntity = "PARTY_ADDRESS"
	SyncEntityBranch       SyncEntity = "BRANCH"
	SyncEntityAll          SyncEntity = "ALL"
)

// EntitySyncOrder is the fixed order entities are processed in an ALL run.
var EntitySyncOrder = []SyncEntity{
	SyncEntityProduct,
	SyncEntityParty,
	SyncEntityPartyAddress,
	SyncEntityBranch,
}

var validSyncEntities = []SyncEntity{
	SyncEntityProduct,
	SyncEntityParty,
	SyncEntityPartyAddress,
	SyncEntityBranch,
	SyncEntityAll,
}

// String implements fmt.Stringer.
func (s SyncEntity) String() string {
	return string(s)
}

// Valid reports whether the value is a known sync entity.
func (s SyncEntity) Valid() bool {
	for _, v := range validSyncEntities {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSyncEntity validates and converts a raw string.
func ParseSyncEntity(raw string) (SyncEntity, error) {
	entity := SyncEntity(raw)
	if !entity.Valid() {
		return "", fmt.Errorf("unknown sync entity %q", raw)
	}
	return entity, nil
}
