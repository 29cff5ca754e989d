package deployments

import (
	"github.com/matzehuels/deployview/pkg/diagram"
	c "github.com/matzehuels/deployview/pkg/diagram/catalog"
)

// rucioK8sSME is the CERN Rucio IT Kubernetes deployment: one experiment
// cluster per VO, deployed by ArgoCD with secrets from Vault.
var rucioK8sSME = Deployment{
	Name:        "rucio-k8s-sme",
	Title:       "Rucio IT Deployment Architecture",
	Description: "CERN Rucio IT Kubernetes deployment managed by ArgoCD",
	Summary: []string{
		"Diagram generated successfully!",
		"Files created:",
	},
	// The written paths follow "Files created:".
	ListsFiles: true,
	build:      buildRucioK8sSME,
}

func buildRucioK8sSME() *diagram.Diagram {
	d := diagram.New("Rucio IT Deployment Architecture",
		diagram.WithName("rucio-k8s-sme"),
		diagram.WithFilename("rucio-k8s-sme/rucio-k8s-sme-deployment"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(graphAttrs()),
		diagram.WithNodeAttrs(nodeAttrs("12")),
		diagram.WithEdgeAttrs(edgeAttrs()),
	)
	root := d.Root()

	users := root.Node(c.OnPremUsers, "Experiment Users")
	internet := root.Node(c.OnPremInternet, "Internet")

	var sso, fts, dns string
	root.Cluster("External Services", func(s *diagram.Scope) {
		sso = s.Node(c.K8sServiceAccount, "CERN SSO\nauth.cern.ch")
		fts = s.Node(c.K8sService, "FTS3 Transfer\nfts3-pilot.cern.ch")
		dns = s.Node(c.K8sService, "External DNS\nip-dns-0.cern.ch")
	})

	var argo string
	root.Cluster("ArgoCD Control Plane", func(s *diagram.Scope) {
		argo = s.Node(c.K8sDeployment, "ArgoCD Server\nargo.rucioit.cern.ch")
		repo := s.Node(c.K8sPod, "ArgoCD Repo Server")
		plugin := s.Node(c.K8sPod, "Vault Plugin")
		vault := s.Node(c.OnPremVault, "HashiCorp Vault\nwoger-vault.cern.ch")

		d.Chain(argo, repo, plugin)
		d.Connect(plugin, diagram.Edge{Style: diagram.StyleDashed, Label: "secrets"}, vault)
	})

	var dbod string
	root.Cluster("Database Layer", func(s *diagram.Scope) {
		dbod = s.Node(c.OnPremPostgreSQL, "DBOD PostgreSQL\nper experiment")
	})

	var (
		server, auth, webui, ui       string
		judge, conveyor               string
		pgbouncer, extDNS, monitoring string
		reloader, redis, regTools     string
	)
	root.Cluster("Experiment Cluster (ship, ams02, na62, etc.)", func(s *diagram.Scope) {
		s.Cluster("Rucio Core Services", func(s *diagram.Scope) {
			server = s.Node(c.K8sDeployment, "Rucio Server\n{exp}-server.rucioit.cern.ch")
			auth = s.Node(c.K8sDeployment, "Rucio Auth\n{exp}-auth.rucioit.cern.ch")
			webui = s.Node(c.K8sDeployment, "Rucio WebUI\n{exp}-webui.rucioit.cern.ch")
			ui = s.Node(c.K8sDeployment, "Rucio UI\n{exp}-ui.rucioit.cern.ch")
		})

		s.Cluster("Rucio Daemons", func(s *diagram.Scope) {
			judge = s.Node(c.K8sReplicaSet, "Judge Services\n(Evaluator/Injector)")
			conveyor = s.Node(c.K8sReplicaSet, "Conveyor Services\n(Transfer/Poller)")
			s.Node(c.K8sReplicaSet, "Lifecycle Services\n(Reaper/Minos)")
		})

		s.Cluster("Support Services", func(s *diagram.Scope) {
			pgbouncer = s.Node(c.K8sPod, "PGBouncer\nConnection Pool")
			extDNS = s.Node(c.K8sPod, "External DNS")
			monitoring = s.Node(c.OnPremPrometheus, "ServiceMonitor")
			reloader = s.Node(c.K8sPod, "Reloader")
		})

		s.Cluster("Optional Services", func(s *diagram.Scope) {
			redis = s.Node(c.OnPremRedis, "Redis\nRegistration Cache")
			s.Node(c.GenericUbuntu, "Development Pod\nSSH Access")
			regTools = s.Node(c.K8sJob, "Registration Tools\nBatch Jobs")
		})
	})

	var eos, tape string
	root.Cluster("Storage Elements (RSEs)", func(s *diagram.Scope) {
		eos = s.Node(c.GenericStorage, "EOS Disk Storage\nDISK RSE")
		tape = s.Node(c.GenericStorage, "CTA Tape Storage\nTAPE RSE")
	})

	// User access
	d.Chain(users, internet, webui)
	d.Chain(users, internet, ui)
	d.Chain(users, internet, server)

	d.Connect(argo, diagram.Edge{Label: "deploy"}, server, auth, webui, ui, judge, conveyor)

	d.Connect(auth, diagram.Edge{Label: "SSO auth"}, sso)
	d.Connect(webui, diagram.Edge{Label: "SSO auth"}, sso)

	// Database
	d.Chain(server, pgbouncer)
	d.Connect(pgbouncer, diagram.Edge{Label: "pool"}, dbod)
	d.Connect(judge, diagram.Edge{Label: "rules"}, dbod)

	// Transfers
	d.Connect(conveyor, diagram.Edge{Label: "submit transfers"}, fts)
	d.Connect(conveyor, diagram.Edge{Label: "data movement"}, eos, tape)

	d.Connect(extDNS, diagram.Edge{Label: "DNS updates"}, dns)

	d.Connect(regTools, diagram.Edge{Label: "cache"}, redis)
	d.Connect(regTools, diagram.Edge{Label: "metadata"}, server)

	d.Connect(monitoring, diagram.Edge{Style: diagram.StyleDashed}, server, conveyor)
	d.Connect(reloader, diagram.Edge{Style: diagram.StyleDashed, Label: "watch"}, server, auth)

	return d
}
