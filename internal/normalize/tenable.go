package normalize

import (
	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// Tenable maps a raw Tenable host record into a canonical Host. Returns
// nil if raw is empty.
func Tenable(raw docnode.Node) *canonical.Host {
	if raw.IsEmptyObject() || raw.IsAbsent() {
		return nil
	}

	osString := raw.Get("operating_systems").Index(0).StringOr("")
	osName, platform, kernelVersion := ParseOSString(osString)

	displayIPv4 := raw.Get("display_ipv4_address").StringOr("")
	ipv4Addresses := stringList(raw.Get("ipv4_addresses"))
	ipv6Addresses := stringList(raw.Get("ipv6_addresses"))

	networkInterfaces := tenableNetworkInterfaces(raw, ipv4Addresses, ipv6Addresses)

	h := canonical.New()
	h.PrimaryMACAddress = raw.Get("display_mac_address").StringPtr()
	h.CloudInstanceID = raw.Get("aws_ec2_instance_id").StringPtr()
	h.SourceIDs["tenable_id"] = raw.Get("id").IDString()

	h.Hostname = raw.Get("host_name").StringPtr()
	h.OSName = strOrNil(osName)
	h.OSPlatform = strOrNil(platform)
	h.KernelVersion = kernelVersion
	h.PublicIP = strOrNil(displayIPv4)
	h.PrivateIP = tenablePrivateIP(ipv4Addresses, displayIPv4)
	h.NetworkInterfaces = networkInterfaces
	h.CloudContext = tenableCloudContext(raw)
	h.TenableSecurity = tenableSecurityInfo(raw)
	h.InstalledSoftware = tenableSoftware(raw)

	now := nowISO()
	h.RecordCreatedAt = &now
	h.RecordLastUpdatedAt = &now

	return h
}

func stringList(n docnode.Node) []string {
	items := n.List()
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.String(); ok {
			out = append(out, s)
		}
	}
	return out
}

// tenablePrivateIP returns the first IPv4 address that is not the
// displayed public address, or nil if none exists.
func tenablePrivateIP(ipv4Addresses []string, displayIPv4 string) *string {
	for _, ip := range ipv4Addresses {
		if ip != displayIPv4 {
			return ptr(ip)
		}
	}
	return nil
}

// tenableNetworkInterfaces synthesizes one interface per MAC address; the
// first interface (if any) receives the classified private/public IPv4
// and the first IPv6 address, matching the original's single-interface
// enrichment.
func tenableNetworkInterfaces(raw docnode.Node, ipv4Addresses, ipv6Addresses []string) []canonical.NetworkInterface {
	macs := stringList(raw.Get("mac_addresses"))
	ifaces := make([]canonical.NetworkInterface, 0, len(macs))
	for _, mac := range macs {
		ifaces = append(ifaces, canonical.NetworkInterface{
			MACAddress: ptr(mac),
			Sources:    []string{"Tenable"},
		})
	}
	if len(ifaces) == 0 {
		return ifaces
	}

	var privateIP, publicIP string
	for _, ip := range ipv4Addresses {
		if IsPrivateIPv4(ip) {
			if privateIP == "" {
				privateIP = ip
			}
		} else if publicIP == "" {
			publicIP = ip
		}
	}
	if privateIP != "" {
		ifaces[0].PrivateIPv4 = ptr(privateIP)
	}
	if publicIP != "" {
		ifaces[0].PublicIPv4 = ptr(publicIP)
	}
	if len(ipv6Addresses) > 0 {
		ifaces[0].IPv6 = ptr(ipv6Addresses[0])
	}
	return ifaces
}

func tenableCloudContext(raw docnode.Node) *canonical.CloudContext {
	return &canonical.CloudContext{
		Provider:         ptr("AWS"),
		AccountID:        raw.Get("aws_owner_id").StringPtr(),
		InstanceID:       raw.Get("aws_ec2_instance_id").StringPtr(),
		InstanceType:     raw.Get("aws_ec2_instance_type").StringPtr(),
		Region:           raw.Get("aws_region").StringPtr(),
		AvailabilityZone: raw.Get("aws_availability_zone").StringPtr(),
		ImageID:          raw.Get("aws_ec2_instance_ami_id").StringPtr(),
		VPCID:            raw.Get("aws_vpc_id").StringPtr(),
		SubnetID:         raw.Get("aws_subnet_id").StringPtr(),
	}
}

func tenableSecurityInfo(raw docnode.Node) *canonical.TenableSecurityInfo {
	tags := []canonical.TenableTag{}
	for _, t := range raw.Get("tags").List() {
		tags = append(tags, canonical.TenableTag{
			Category: t.Get("category").StringPtr(),
			Value:    t.Get("value").StringPtr(),
		})
	}

	mitigations := []canonical.TenableMitigation{}
	for _, m := range raw.Get("mitigations").List() {
		mitigations = append(mitigations, canonical.TenableMitigation{
			PluginID: m.Get("id").StringPtr(),
			// last_Detected capitalization is inconsistent in the vendor
			// payload; normalized to last_detected here.
			LastDetected: m.Get("last_Detected").StringPtr(),
		})
	}

	counts := map[string]int{}
	vc := raw.Get("vuln_counts")
	for _, k := range vc.Keys() {
		if v := vc.Get(k).IntPtr(); v != nil {
			counts[k] = *v
		}
	}

	return &canonical.TenableSecurityInfo{
		HasAgent:                  raw.Get("has_agent").BoolPtr(),
		LastAuthenticatedScanTime: raw.Get("last_authenticated_scan_time").StringPtr(),
		VulnerabilityCounts:       counts,
		Tags:                      tags,
		Mitigations:               mitigations,
	}
}

func tenableSoftware(raw docnode.Node) []canonical.Software {
	out := []canonical.Software{}
	for _, cpe := range raw.Get("installed_software").List() {
		s, ok := cpe.String()
		if !ok {
			continue
		}
		vendor, product, version, ok := ParseCPE(s)
		if !ok {
			continue
		}
		out = append(out, canonical.Software{
			Vendor:  strOrNil(vendor),
			Product: product,
			Version: strOrNil(version),
			Sources: []string{"Tenable"},
		})
	}
	return out
}
