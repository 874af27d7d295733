package normalize

import (
	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// CrowdStrike maps a raw CrowdStrike host record into a canonical Host.
// Returns nil if raw is empty.
func CrowdStrike(raw docnode.Node) *canonical.Host {
	if raw.IsEmptyObject() || raw.IsAbsent() {
		return nil
	}

	mac := NormalizeMAC(raw.Get("mac_address").StringOr(""))
	localIP := raw.Get("local_ip").StringOr("")

	h := canonical.New()
	h.PrimaryMACAddress = strOrNil(mac)
	h.CloudInstanceID = raw.Get("instance_id").StringPtr()
	h.SourceIDs["crowdstrike_id"] = raw.Get("device_id").IDString()

	h.Hostname = raw.Get("hostname").StringPtr()
	h.OSName = raw.Get("os_version").StringPtr()
	h.OSPlatform = raw.Get("platform_name").StringPtr()
	h.KernelVersion = raw.Get("kernel_version").StringPtr()
	h.Manufacturer = raw.Get("system_manufacturer").StringPtr()
	h.ProductModel = raw.Get("system_product_name").StringPtr()
	h.PublicIP = raw.Get("external_ip").StringPtr()
	h.PrivateIP = raw.Get("local_ip").StringPtr()
	h.DefaultGateway = raw.Get("default_gateway_ip").StringPtr()
	h.NetworkInterfaces = []canonical.NetworkInterface{{
		MACAddress:  strOrNil(mac),
		PrivateIPv4: strOrNil(localIP),
		Sources:     []string{"CrowdStrike"},
	}}
	h.CloudContext = crowdstrikeCloudContext(raw)
	h.CrowdStrikeSecurity = crowdstrikeSecurityInfo(raw)

	now := nowISO()
	h.RecordCreatedAt = &now
	h.RecordLastUpdatedAt = &now

	return h
}

func crowdstrikeCloudContext(raw docnode.Node) *canonical.CloudContext {
	provider := raw.Get("service_provider").StringOr("")
	if provider == "" {
		return nil
	}
	if provider == "AWS_EC2_V2" {
		provider = "AWS"
	}
	return &canonical.CloudContext{
		Provider:         ptr(provider),
		AccountID:        raw.Get("service_provider_account_id").StringPtr(),
		InstanceID:       raw.Get("instance_id").StringPtr(),
		AvailabilityZone: raw.Get("zone_group").StringPtr(),
	}
}

func crowdstrikeSecurityInfo(raw docnode.Node) *canonical.CrowdStrikeSecurityInfo {
	policies := map[string]string{}
	devicePolicies := raw.Get("device_policies")
	for _, ptype := range devicePolicies.Keys() {
		id := devicePolicies.Get(ptype).Get("policy_id").IDString()
		if id != "" {
			policies[ptype] = id
		}
	}

	return &canonical.CrowdStrikeSecurityInfo{
		AgentVersion: raw.Get("agent_version").StringPtr(),
		Status:       raw.Get("status").StringPtr(),
		FirstSeen:    raw.Get("first_seen").StringPtr(),
		LastSeen:     raw.Get("last_seen").StringPtr(),
		Policies:     policies,
	}
}
