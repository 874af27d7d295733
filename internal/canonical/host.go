// Package canonical defines the Unified Host record: the single schema that
// every vendor source is normalized into before deduplication and storage.
//
// A canonical Host carries its own source provenance inline (source_ids,
// and per-entry sources slices on set-valued fields) so the deduplicator can
// strip-and-replace a single source's contribution without touching data
// contributed by other sources.
package canonical

// NetworkInterface is one network interface observed on a host. sources
// records which vendors have contributed this exact interface; the
// deduplicator strips and re-adds entries per source on each merge rather
// than deep-diffing individual fields.
type NetworkInterface struct {
	MACAddress  *string  `json:"mac_address,omitempty"`
	PrivateIPv4 *string  `json:"private_ip_v4,omitempty"`
	PublicIPv4  *string  `json:"public_ip_v4,omitempty"`
	IPv6        *string  `json:"ip_v6,omitempty"`
	Sources     []string `json:"sources"`
}

// CloudContext describes the cloud provider environment a host runs in.
type CloudContext struct {
	Provider         *string `json:"provider,omitempty"`
	AccountID        *string `json:"account_id,omitempty"`
	InstanceID       *string `json:"instance_id,omitempty"`
	InstanceType     *string `json:"instance_type,omitempty"`
	Region           *string `json:"region,omitempty"`
	AvailabilityZone *string `json:"availability_zone,omitempty"`
	ImageID          *string `json:"image_id,omitempty"`
	VPCID            *string `json:"vpc_id,omitempty"`
	SubnetID         *string `json:"subnet_id,omitempty"`
}

// QualysSecurityInfo is opaque-to-dedup: replaced wholesale whenever Qualys
// re-observes the host, never field-merged.
type QualysSecurityInfo struct {
	AgentVersion       *string        `json:"agent_version,omitempty"`
	LastCheckedIn      *string        `json:"last_checked_in,omitempty"`
	LastVulnScan       *string        `json:"last_vuln_scan,omitempty"`
	VulnerabilityQIDs  []int          `json:"vulnerability_qids"`
	OpenPorts          []map[string]any `json:"open_ports"`
}

// CrowdStrikeSecurityInfo is opaque-to-dedup: replaced wholesale whenever
// CrowdStrike re-observes the host.
type CrowdStrikeSecurityInfo struct {
	AgentVersion *string           `json:"agent_version,omitempty"`
	Status       *string           `json:"status,omitempty"`
	FirstSeen    *string           `json:"first_seen,omitempty"`
	LastSeen     *string           `json:"last_seen,omitempty"`
	Policies     map[string]string `json:"policies"`
}

// TenableTag is a vendor tag copied structurally from Tenable's payload.
type TenableTag struct {
	Category *string `json:"category,omitempty"`
	Value    *string `json:"value,omitempty"`
}

// TenableMitigation is a vendor mitigation record. The source field is
// last_Detected (inconsistent capitalization); normalized here to
// last_detected per the canonical form.
type TenableMitigation struct {
	PluginID     *string `json:"plugin_id,omitempty"`
	LastDetected *string `json:"last_detected,omitempty"`
}

// TenableSecurityInfo is opaque-to-dedup: replaced wholesale whenever
// Tenable re-observes the host. Not present in the original shared
// data-model file; fields follow what the Tenable normalizer actually
// produces (has_agent, last_authenticated_scan_time, vulnerability_counts,
// tags, mitigations).
type TenableSecurityInfo struct {
	HasAgent                 *bool               `json:"has_agent,omitempty"`
	LastAuthenticatedScanTime *string             `json:"last_authenticated_scan_time,omitempty"`
	VulnerabilityCounts       map[string]int      `json:"vulnerability_counts"`
	Tags                      []TenableTag        `json:"tags"`
	Mitigations               []TenableMitigation `json:"mitigations"`
}

// Software is a single installed-software entry. sources tracks which
// vendors reported this exact (vendor, product, version) triple.
type Software struct {
	Vendor  *string  `json:"vendor,omitempty"`
	Product string   `json:"product"`
	Version *string  `json:"version,omitempty"`
	Sources []string `json:"sources"`
}

// Host is the Unified Host record: the canonical, source-agnostic
// representation every vendor record is normalized into and the unit the
// deduplicator matches, merges, and the store persists.
type Host struct {
	// Primary identifiers for deduplication. Strong, reliable identifiers
	// used for candidate matching; see internal/dedup for scoring.
	PrimaryMACAddress *string `json:"primary_mac_address,omitempty"`
	CloudInstanceID   *string `json:"cloud_instance_id,omitempty"`

	// Source-specific identifiers for traceability, e.g.
	// {"qualys_id": "123", "crowdstrike_id": "abc"}. By construction, a
	// single normalized record always carries exactly one entry.
	SourceIDs map[string]string `json:"source_ids"`

	// Core host information.
	Hostname          *string `json:"hostname,omitempty"`
	OSName            *string `json:"os_name,omitempty"`
	OSPlatform        *string `json:"os_platform,omitempty"`
	KernelVersion     *string `json:"kernel_version,omitempty"`
	LastBootTimestamp *string `json:"last_boot_timestamp,omitempty"`

	// Hardware information.
	Manufacturer  *string `json:"manufacturer,omitempty"`
	ProductModel  *string `json:"product_model,omitempty"`
	ProcessorInfo *string `json:"processor_info,omitempty"`
	TotalMemoryMB *int    `json:"total_memory_mb,omitempty"`

	// Network information.
	PublicIP          *string            `json:"public_ip,omitempty"`
	PrivateIP         *string            `json:"private_ip,omitempty"`
	DefaultGateway    *string            `json:"default_gateway,omitempty"`
	NetworkInterfaces []NetworkInterface `json:"network_interfaces"`

	// Contextual & per-source security information. Each security blob is
	// opaque to the deduplicator: replaced wholesale, never field-merged.
	CloudContext        *CloudContext            `json:"cloud_context,omitempty"`
	QualysSecurity      *QualysSecurityInfo      `json:"qualys_security,omitempty"`
	CrowdStrikeSecurity *CrowdStrikeSecurityInfo `json:"crowdstrike_security,omitempty"`
	TenableSecurity     *TenableSecurityInfo     `json:"tenable_security,omitempty"`

	// Inventories.
	InstalledSoftware []Software `json:"installed_software"`

	// Metadata.
	RecordCreatedAt     *string `json:"record_created_at,omitempty"`
	RecordLastUpdatedAt *string `json:"record_last_updated_at,omitempty"`
}

// New returns a Host with all set-valued fields initialized to empty slices
// and maps rather than nil, so JSON encoding never round-trips null for
// them and merge logic never needs a nil check before appending.
func New() *Host {
	return &Host{
		SourceIDs:         map[string]string{},
		NetworkInterfaces: []NetworkInterface{},
		InstalledSoftware: []Software{},
	}
}

// SourceTag derives the vendor tag from the single entry in SourceIDs:
// qualys_id -> "Qualys", crowdstrike_id -> "CrowdStrike",
// tenable_id -> "Tenable"; unknown keys map to "Unknown".
func (h *Host) SourceTag() string {
	for k := range h.SourceIDs {
		switch k {
		case "qualys_id":
			return "Qualys"
		case "crowdstrike_id":
			return "CrowdStrike"
		case "tenable_id":
			return "Tenable"
		default:
			return "Unknown"
		}
	}
	return "Unknown"
}
