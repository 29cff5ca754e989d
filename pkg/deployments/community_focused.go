package deployments

import (
	"github.com/matzehuels/deployview/pkg/diagram"
	c "github.com/matzehuels/deployview/pkg/diagram/catalog"
)

// communityFocused is the generic, stateless cloud-native Rucio deployment
// with the CERN-specific dependencies replaced by pluggable CNCF components.
var communityFocused = Deployment{
	Name:        "rucio-k8s-sme-community-focused",
	Title:       "Generic Rucio Deployment - Stateless Cloud Native",
	Description: "Generic stateless cloud-native deployment for community adoption",
	Summary: []string{
		"Generic Rucio deployment diagram generated!",
		"Key improvements for community adoption:",
		"- Removed CERN-specific dependencies (Vault/AVP)",
		"- Added flexible secret management options",
		"- Included cert-manager for automated TLS",
		"- Generic OIDC provider support",
		"- Cloud-native storage options",
		"- Standard ingress patterns",
		"- Stateless cluster design with external managed database",
		"- Ephemeral storage only (no persistent state in cluster)",
	},
	build: buildCommunityFocused,
}

func buildCommunityFocused() *diagram.Diagram {
	d := diagram.New("Generic Rucio Deployment - Stateless Cloud Native",
		diagram.WithName("rucio-k8s-sme-community-focused"),
		diagram.WithFilename("rucio-k8s-sme-community-focused/deployment"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(graphAttrs()),
		diagram.WithNodeAttrs(nodeAttrs("11")),
	)
	root := d.Root()

	users := root.Node(c.OnPremUsers, "Research Community\nUsers")

	var gitops, configMgmt string
	root.Cluster("GitOps Control Plane", func(s *diagram.Scope) {
		gitops = s.Node(c.OnPremGit, "GitOps Controller\n(ArgoCD/Flux)")
		configMgmt = s.Node(c.K8sPod, "Config Management\n(Kustomize/Helm)")
		d.Chain(gitops, configMgmt)
	})

	var vault, k8sSecrets, externalSecrets string
	root.Cluster("Secret Management (Choose One)", func(s *diagram.Scope) {
		vault = s.Node(c.OnPremVault, "HashiCorp Vault\n(Option A)")
		k8sSecrets = s.Node(c.K8sServiceAccount, "Kubernetes Secrets\n(Option B)")
		externalSecrets = s.Node(c.K8sCRD, "External Secrets\nOperator (Option C)")
	})

	var certManager string
	root.Cluster("Certificate Management", func(s *diagram.Scope) {
		certManager = s.Node(c.K8sPod, "cert-manager")
		issuer := s.Node(c.K8sPod, "CA Issuer\n(Let's Encrypt/Private)")
		d.Chain(certManager, issuer)
	})

	var oidc string
	root.Cluster("Identity Provider", func(s *diagram.Scope) {
		oidc = s.Node(c.K8sServiceAccount, "OIDC Provider\n(Keycloak/Auth0/etc)")
	})

	var fts string
	root.Cluster("External Services", func(s *diagram.Scope) {
		fts = s.Node(c.K8sService, "FTS3 / GridFTP\nTransfer Service")
		s.Node(c.K8sService, "DNS Provider\n(External-DNS)")
	})

	var (
		ingress, tls              string
		server, auth, webui       string
		judge, conveyor           string
		dbPool, monitoring, cache string
	)
	root.Cluster("Rucio Cluster", func(s *diagram.Scope) {
		s.Cluster("Ingress & Load Balancing", func(s *diagram.Scope) {
			ingress = s.Node(c.K8sIngress, "Ingress Controller\n(nginx/traefik)")
			tls = s.Node(c.K8sPod, "TLS Certificates\n(auto-renewed)")
		})

		s.Cluster("Rucio Applications", func(s *diagram.Scope) {
			server = s.Node(c.K8sDeployment, "Rucio Server")
			auth = s.Node(c.K8sDeployment, "Rucio Auth")
			webui = s.Node(c.K8sDeployment, "Rucio WebUI")
		})

		s.Cluster("Rucio Daemons", func(s *diagram.Scope) {
			judge = s.Node(c.K8sReplicaSet, "Judge Services\n• Rule Engine\n• Evaluator/Injector")
			conveyor = s.Node(c.K8sReplicaSet, "Conveyor Services\n• Transfer Management\n• Poller/Submitter")
			s.Node(c.K8sReplicaSet, "Maintenance\n• Reaper\n• Undertaker\n• Minos")
		})

		s.Cluster("Infrastructure Services", func(s *diagram.Scope) {
			dbPool = s.Node(c.K8sPod, "Connection Pooling\n(PgBouncer)")
			monitoring = s.Node(c.OnPremPrometheus, "Observability Stack\n(Prometheus/Grafana)")
			cache = s.Node(c.OnPremRedis, "Cache Layer\n(Redis/optional)")
		})
	})

	var database string
	root.Cluster("External Managed Services", func(s *diagram.Scope) {
		database = s.Node(c.OnPremPostgreSQL, "Managed Database\n(RDS/CloudSQL/Azure DB)")
	})

	root.Cluster("Cluster Storage (Ephemeral)", func(s *diagram.Scope) {
		s.Node(c.K8sPersistentVolume, "Ephemeral Storage\n(Logs/Cache only)")
	})

	var object, posix, archive string
	root.Cluster("Storage Elements (RSEs)", func(s *diagram.Scope) {
		object = s.Node(c.GenericStorage, "Object Storage\n(S3/Ceph/Swift)")
		posix = s.Node(c.GenericStorage, "POSIX Storage\n(NFS/CephFS)")
		archive = s.Node(c.GenericStorage, "Archive Storage\n(Tape/Glacier)")
	})

	// User flow
	d.Connect(users, diagram.Edge{Label: "HTTPS", Color: "blue"}, ingress)
	d.Connect(ingress, diagram.Edge{Color: "blue"}, webui, server)

	// GitOps flow
	deploy := diagram.Edge{Label: "deploy", Color: "green"}
	d.Connect(gitops, deploy, server, auth, webui)
	d.Connect(gitops, deploy, judge, conveyor)
	d.Connect(configMgmt, diagram.Edge{Style: diagram.StyleDashed, Label: "config", Color: "orange"}, gitops)

	// Certificate automation
	d.Connect(certManager, diagram.Edge{Label: "auto-renew", Color: "purple"}, tls)
	d.Connect(tls, diagram.Edge{Color: "purple"}, ingress)

	secrets := diagram.Edge{Style: diagram.StyleDashed, Label: "secrets", Color: "orange"}
	d.Connect(vault, secrets, gitops)
	d.Connect(k8sSecrets, secrets, gitops)
	d.Connect(externalSecrets, secrets, gitops)

	oidcEdge := diagram.Edge{Label: "OIDC", Color: "purple"}
	d.Connect(auth, oidcEdge, oidc)
	d.Connect(webui, oidcEdge, oidc)

	// Database access
	d.Chain(server, dbPool)
	d.Connect(dbPool, diagram.Edge{Label: "SQL", Color: "red"}, database)
	d.Connect(judge, diagram.Edge{Label: "rules & jobs", Color: "red"}, database)

	// Data movement
	d.Connect(conveyor, diagram.Edge{Label: "transfers", Color: "darkgreen"}, fts)
	d.Connect(conveyor, diagram.Edge{Label: "data ops", Color: "darkgreen"}, object, posix, archive)

	d.Connect(monitoring, diagram.Edge{Style: diagram.StyleDashed, Label: "metrics", Color: "gray"}, server, judge, conveyor)
	d.Connect(cache, diagram.Edge{Style: diagram.StyleDashed, Label: "cache", Color: "gray"}, server)

	return d
}
