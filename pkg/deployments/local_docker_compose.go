package deployments

import (
	"github.com/matzehuels/deployview/pkg/diagram"
	c "github.com/matzehuels/deployview/pkg/diagram/catalog"
)

// localDockerCompose is the complete Rucio development environment from the
// Docker Compose setup, including every optional service.
var localDockerCompose = Deployment{
	Name:        "local-docker-compose",
	Title:       "Rucio Development Environment - Complete",
	Description: "Docker Compose development environment with all optional services",
	Summary: []string{
		"Complete Rucio development environment diagram generated!",
		"Includes all services from Docker Compose:",
		"- Core: Rucio server + client containers",
		"- Databases: PostgreSQL, MySQL, Oracle options",
		"- Storage: XRootD, WebDAV, SSH, MinIO S3",
		"- IAM: Keycloak + INDIGO IAM with shared database",
		"- Transfer: FTS3 with MySQL backend",
		"- Messaging: ActiveMQ",
		"- Monitoring: Grafana + InfluxDB + Graphite",
		"- Logging: ELK stack",
		"- External metadata: MongoDB, PostgreSQL, Elasticsearch",
	},
	build: buildLocalDockerCompose,
}

func buildLocalDockerCompose() *diagram.Diagram {
	d := diagram.New("Rucio Development Environment - Complete",
		diagram.WithName("local-docker-compose"),
		diagram.WithFilename("local-docker-compose/deployment"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(graphAttrs()),
		diagram.WithNodeAttrs(nodeAttrs("11")),
		diagram.WithEdgeAttrs(edgeAttrs()),
	)
	root := d.Root()

	users := root.Node(c.OnPremUsers, "Developers")

	var rucio string
	root.Cluster("Core Rucio Services", func(s *diagram.Scope) {
		rucio = s.Node(c.OnPremServer, "Rucio Server")
		s.Node(c.OnPremServer, "Rucio Client")
	})

	var rucioDB string
	root.Cluster("Database Options", func(s *diagram.Scope) {
		rucioDB = s.Node(c.OnPremPostgreSQL, "PostgreSQL")
		s.Node(c.OnPremMySQL, "MySQL 8")
		s.Node(c.OnPremServer, "Oracle XE")
	})

	var xrd, webdav, ssh, minio string
	root.Cluster("Storage Services (RSEs)", func(s *diagram.Scope) {
		xrd = s.Node(c.GenericStorage, "XRootD Cluster")
		webdav = s.Node(c.OnPremServer, "WebDAV")
		ssh = s.Node(c.OnPremServer, "SSH Transfer")
		minio = s.Node(c.OnPremServer, "MinIO S3")
	})

	var fts, ftsDB string
	root.Cluster("File Transfer Service", func(s *diagram.Scope) {
		fts = s.Node(c.OnPremServer, "FTS Server")
		ftsDB = s.Node(c.OnPremMySQL, "FTS Database")
	})

	var keycloak, indigo, iamDB string
	root.Cluster("Identity & Access Management", func(s *diagram.Scope) {
		keycloak = s.Node(c.OnPremServer, "Keycloak")
		indigo = s.Node(c.OnPremServer, "INDIGO IAM")
		iamDB = s.Node(c.OnPremMySQL, "IAM Database")
	})

	var activemq string
	root.Cluster("Messaging", func(s *diagram.Scope) {
		activemq = s.Node(c.OnPremActiveMQ, "ActiveMQ")
	})

	var influxdb, graphite string
	root.Cluster("Monitoring", func(s *diagram.Scope) {
		s.Node(c.OnPremGrafana, "Grafana")
		influxdb = s.Node(c.OnPremServer, "InfluxDB")
		graphite = s.Node(c.OnPremServer, "Graphite")
	})

	var kibana, logstash, elasticsearch string
	root.Cluster("Logging & Analytics", func(s *diagram.Scope) {
		kibana = s.Node(c.OnPremServer, "Kibana")
		logstash = s.Node(c.OnPremServer, "Logstash")
		elasticsearch = s.Node(c.OnPremServer, "Elasticsearch")
	})

	var mongo, pgMeta, esMeta string
	root.Cluster("External Metadata", func(s *diagram.Scope) {
		mongo = s.Node(c.OnPremServer, "MongoDB")
		pgMeta = s.Node(c.OnPremPostgreSQL, "PostgreSQL Meta")
		esMeta = s.Node(c.OnPremServer, "Elasticsearch Meta")
	})

	plain := diagram.Edge{}

	d.Chain(users, rucio)
	d.Chain(rucio, rucioDB)
	d.Connect(rucio, plain, xrd, webdav, ssh, minio)

	d.Chain(rucio, fts, ftsDB)

	d.Connect(rucio, plain, keycloak, indigo)
	d.Chain(keycloak, iamDB)
	d.Chain(indigo, iamDB)

	d.Chain(rucio, activemq)
	d.Connect(rucio, plain, influxdb, graphite)

	d.Chain(rucio, logstash, elasticsearch, kibana)

	d.Connect(rucio, plain, mongo, pgMeta, esMeta)

	return d
}
