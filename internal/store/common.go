package store

import (
	"encoding/json"
	"fmt"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
)

// promoted holds the five fields §4.3 requires sparse secondary indexes
// on, extracted from a Host so they can live in their own indexed
// columns alongside the full JSON document.
type promoted struct {
	primaryMAC    *string
	cloudInstance *string
	hostname      *string
	privateIP     *string
	publicIP      *string
}

func promote(h *canonical.Host) promoted {
	return promoted{
		primaryMAC:    h.PrimaryMACAddress,
		cloudInstance: h.CloudInstanceID,
		hostname:      h.Hostname,
		privateIP:     h.PrivateIP,
		publicIP:      h.PublicIP,
	}
}

func encodeDoc(h *canonical.Host) ([]byte, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("store: encoding host document: %w", err)
	}
	return b, nil
}

func decodeDoc(raw []byte) (*canonical.Host, error) {
	var h canonical.Host
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("store: decoding host document: %w", err)
	}
	return &h, nil
}

// tableName is shared by both backends: the "unified_assets" collection
// inside the "asset_inventory" database named in §6.
const tableName = "unified_assets"
