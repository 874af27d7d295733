package normalize

import (
	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// listField reads the Qualys-shaped {"<field>": {"list": [...]}} wrapper.
func listField(raw docnode.Node, field string) []docnode.Node {
	return raw.Path(field, "list").List()
}

// Qualys maps a raw Qualys host record into a canonical Host. Returns nil
// if raw is empty.
func Qualys(raw docnode.Node) *canonical.Host {
	if raw.IsEmptyObject() || raw.IsAbsent() {
		return nil
	}

	agentInfo := raw.Get("agentInfo")
	ec2 := qualysEc2Info(raw)

	interfaces := listField(raw, "networkInterface")
	primaryMAC := qualysPrimaryMAC(interfaces)
	networkInterfaces, defaultGateway := qualysGroupInterfaces(interfaces, primaryMAC)

	h := canonical.New()
	h.PrimaryMACAddress = strOrNil(primaryMAC)
	h.CloudInstanceID = ec2.StringPtr("instanceId")
	h.SourceIDs["qualys_id"] = raw.Get("id").IDString()

	h.Hostname = raw.Get("name").StringPtr()
	h.OSName = raw.Get("os").StringPtr()
	h.OSPlatform = agentInfo.Get("platform").StringPtr()
	h.LastBootTimestamp = raw.Get("lastSystemBoot").StringPtr()
	h.Manufacturer = raw.Get("manufacturer").StringPtr()
	h.ProductModel = raw.Get("model").StringPtr()
	h.ProcessorInfo = qualysFirstProcessorName(raw)
	h.TotalMemoryMB = raw.Get("totalMemory").IntPtr()
	h.PublicIP = ec2.StringPtr("publicIpAddress")
	h.PrivateIP = raw.Get("address").StringPtr()
	h.DefaultGateway = strOrNil(defaultGateway)
	h.NetworkInterfaces = networkInterfaces
	h.CloudContext = qualysCloudContext(raw, ec2)
	h.QualysSecurity = qualysSecurityInfo(raw, agentInfo)
	h.InstalledSoftware = qualysSoftware(raw)

	now := nowISO()
	h.RecordCreatedAt = &now
	h.RecordLastUpdatedAt = &now

	return h
}

// ec2Node wraps the sourceInfo.list entry carrying Ec2AssetSourceSimple, if
// any; its methods are nil-safe via docnode so callers never branch on
// presence.
type ec2Node struct{ n docnode.Node }

func (e ec2Node) StringPtr(key string) *string { return e.n.Get(key).StringPtr() }
func (e ec2Node) present() bool                { return !e.n.IsAbsent() }

func qualysEc2Info(raw docnode.Node) ec2Node {
	for _, src := range listField(raw, "sourceInfo") {
		if inner := src.Get("Ec2AssetSourceSimple"); !inner.IsAbsent() {
			return ec2Node{n: inner}
		}
	}
	return ec2Node{}
}

func qualysPrimaryMAC(interfaces []docnode.Node) string {
	for _, entry := range interfaces {
		iface := entry.Get("HostAssetInterface")
		if mac := iface.Get("macAddress").StringOr(""); mac != "" {
			return mac
		}
	}
	return ""
}

// qualysGroupInterfaces implements the Qualys network-interface grouping
// algorithm: entries without a MAC but with a dotted-quad address are a
// standalone public IP; entries with a MAC are grouped by MAC, classifying
// `address` as IPv6 / private IPv4 / public IPv4. Any entry's
// gatewayAddress populates the host-level default gateway. A trailing
// standalone public IP backfills the primary MAC's group if it still has
// no public IPv4.
func qualysGroupInterfaces(interfaces []docnode.Node, primaryMAC string) ([]canonical.NetworkInterface, string) {
	type group struct {
		iface canonical.NetworkInterface
		order int
	}
	grouped := map[string]*group{}
	order := []string{}
	defaultGateway := ""
	standalonePublicIP := ""

	for _, entry := range interfaces {
		iface := entry.Get("HostAssetInterface")
		mac := iface.Get("macAddress").StringOr("")
		address := iface.Get("address").StringOr("")

		if gw := iface.Get("gatewayAddress").StringOr(""); gw != "" {
			defaultGateway = gw
		}

		if mac == "" && address != "" && containsDot(address) {
			standalonePublicIP = address
			continue
		}
		if mac == "" {
			continue
		}

		g, ok := grouped[mac]
		if !ok {
			g = &group{iface: canonical.NetworkInterface{
				MACAddress: ptr(mac),
				Sources:    []string{"Qualys"},
			}}
			grouped[mac] = g
			order = append(order, mac)
		}

		if address == "" {
			continue
		}
		switch {
		case IsIPv6(address):
			g.iface.IPv6 = ptr(address)
		case IsPrivateIPv4(address):
			g.iface.PrivateIPv4 = ptr(address)
		default:
			g.iface.PublicIPv4 = ptr(address)
		}
	}

	if standalonePublicIP != "" {
		if g, ok := grouped[primaryMAC]; ok && g.iface.PublicIPv4 == nil {
			g.iface.PublicIPv4 = ptr(standalonePublicIP)
		}
	}

	out := make([]canonical.NetworkInterface, 0, len(order))
	for _, mac := range order {
		out = append(out, grouped[mac].iface)
	}
	return out, defaultGateway
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}

func qualysCloudContext(raw docnode.Node, ec2 ec2Node) *canonical.CloudContext {
	if !ec2.present() {
		return nil
	}
	return &canonical.CloudContext{
		Provider:         raw.Get("cloudProvider").StringPtr(),
		AccountID:        ec2.StringPtr("accountId"),
		InstanceID:       ec2.StringPtr("instanceId"),
		InstanceType:     ec2.StringPtr("instanceType"),
		Region:           ec2.StringPtr("region"),
		AvailabilityZone: ec2.StringPtr("availabilityZone"),
		ImageID:          ec2.StringPtr("imageId"),
		VPCID:            ec2.StringPtr("vpcId"),
		SubnetID:         ec2.StringPtr("subnetId"),
	}
}

func qualysFirstProcessorName(raw docnode.Node) *string {
	procs := listField(raw, "processor")
	if len(procs) == 0 {
		return nil
	}
	return procs[0].Get("HostAssetProcessor").Get("name").StringPtr()
}

func qualysSecurityInfo(raw, agentInfo docnode.Node) *canonical.QualysSecurityInfo {
	var qids []int
	for _, v := range listField(raw, "vuln") {
		if q := v.Get("HostAssetVuln").Get("qid").IntPtr(); q != nil {
			qids = append(qids, *q)
		}
	}
	if qids == nil {
		qids = []int{}
	}

	var ports []map[string]any
	for _, p := range listField(raw, "openPort") {
		op := p.Get("HostAssetOpenPort")
		ports = append(ports, map[string]any{
			"port":     op.Get("port").Raw(),
			"protocol": op.Get("protocol").Raw(),
		})
	}
	if ports == nil {
		ports = []map[string]any{}
	}

	return &canonical.QualysSecurityInfo{
		AgentVersion:      agentInfo.Get("agentVersion").StringPtr(),
		LastCheckedIn:     agentInfo.Path("lastCheckedIn", "$date").StringPtr(),
		LastVulnScan:      raw.Path("lastVulnScan", "$date").StringPtr(),
		VulnerabilityQIDs: qids,
		OpenPorts:         ports,
	}
}

func qualysSoftware(raw docnode.Node) []canonical.Software {
	out := []canonical.Software{}
	for _, sw := range listField(raw, "software") {
		hw := sw.Get("HostAssetSoftware")
		name := hw.Get("name").StringOr("")
		if name == "" {
			continue
		}
		out = append(out, canonical.Software{
			Product: name,
			Version: hw.Get("version").StringPtr(),
			Sources: []string{"Qualys"},
		})
	}
	return out
}

