package catalog

// Catalog keys, usable wherever a kind key string is expected.
const (
	K8sDeployment       = "k8s.compute.Deployment"
	K8sPod              = "k8s.compute.Pod"
	K8sJob              = "k8s.compute.Job"
	K8sReplicaSet       = "k8s.compute.ReplicaSet"
	K8sService          = "k8s.network.Service"
	K8sIngress          = "k8s.network.Ingress"
	K8sPersistentVolume = "k8s.storage.PersistentVolume"
	K8sStorageClass     = "k8s.storage.StorageClass"
	K8sServiceAccount   = "k8s.rbac.ServiceAccount"
	K8sLimitRange       = "k8s.clusterconfig.LimitRange"
	K8sCRD              = "k8s.others.CRD"

	OnPremPostgreSQL = "onprem.database.PostgreSQL"
	OnPremMySQL      = "onprem.database.MySQL"
	OnPremRedis      = "onprem.inmemory.Redis"
	OnPremPrometheus = "onprem.monitoring.Prometheus"
	OnPremGrafana    = "onprem.monitoring.Grafana"
	OnPremGit        = "onprem.vcs.Git"
	OnPremVault      = "onprem.security.Vault"
	OnPremInternet   = "onprem.network.Internet"
	OnPremUsers      = "onprem.client.Users"
	OnPremActiveMQ   = "onprem.queue.ActiveMQ"
	OnPremServer     = "onprem.compute.Server"

	AWSCloudFront = "aws.network.CloudFront"

	GenericBlank   = "generic.blank.Blank"
	GenericUbuntu  = "generic.os.Ubuntu"
	GenericStorage = "generic.storage.Storage"

	ProgrammingPython = "programming.language.Python"
)
