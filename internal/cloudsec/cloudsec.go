// Package cloudsec declares the built-in AWS CloudSec Microservices
// Platform architecture: edge protection in front of an API gateway, an
// EKS-hosted microservice tier inside a VPC, the data tier, and the
// security, delivery and monitoring services around them.
package cloudsec

import (
	"github.com/matzehuels/archdiagram/pkg/diagram"
)

const (
	// Title is the diagram title.
	Title = "AWS CloudSec Microservices Platform"

	// Filename is the default output path, without extension.
	Filename = "aws-cloudsec-architecture"
)

// GraphAttrs are the graph attributes the platform diagram is drawn with.
var GraphAttrs = map[string]string{
	"fontsize":  "24",
	"bgcolor":   "white",
	"splines":   "spline",
	"pad":       "0.5",
	"nodesep":   "0.60",
	"ranksep":   "0.75",
	"fontname":  "Sans-Serif",
	"fontcolor": "#2D3436",
	"labelloc":  "t",
}

// Options returns the diagram options for the platform diagram. Extra
// options are appended and win.
func Options(extra ...diagram.Option) []diagram.Option {
	opts := []diagram.Option{
		diagram.WithFilename(Filename),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(GraphAttrs),
	}
	return append(opts, extra...)
}

// New returns an empty diagram configured for the platform.
func New(extra ...diagram.Option) *diagram.Diagram {
	return diagram.New(Title, Options(extra...)...)
}

// Build declares the platform's clusters, nodes and edges on d.
func Build(d *diagram.Diagram) error {
	if d.Finalized() {
		return diagram.ErrFinalized
	}

	clients := d.MustAddCluster("Clients", nil)
	web := clients.MustAddNode("Web Client", diagram.FrameworkReact)
	mobile := clients.MustAddNode("Mobile Client", diagram.OnPremNginx)
	apiClient := clients.MustAddNode("API Client", diagram.AWSEC2)

	edge := d.MustAddCluster("Edge Layer", nil)
	route53 := edge.MustAddNode("Route 53", diagram.AWSRoute53)
	cloudfront := edge.MustAddNode("CloudFront", diagram.AWSCloudFront)
	waf := edge.MustAddNode("WAF", diagram.AWSWAF)
	shield := edge.MustAddNode("Shield", diagram.AWSShield)

	api := d.MustAddNode("API Gateway", diagram.AWSAPIGateway)

	network := d.MustAddCluster("Network Layer", nil)
	vpcCluster := network.MustAddCluster("VPC")
	vpc := vpcCluster.MustAddNode("VPC", diagram.AWSVPC)

	public := vpcCluster.MustAddCluster("Public Subnet")
	elb := public.MustAddNode("Load Balancer", diagram.AWSELB)

	appTier := vpcCluster.MustAddCluster("Private Subnet - App Tier")
	eksCluster := appTier.MustAddCluster("EKS Cluster")
	eks := eksCluster.MustAddNode("Kubernetes", diagram.AWSEKS)
	services := eksCluster.MustAddCluster("Microservices")
	auth := services.MustAddNode("Auth Service", diagram.AWSCognito)
	business1 := services.MustAddNode("Business Service 1", diagram.LangNodeJS)
	business2 := services.MustAddNode("Business Service 2", diagram.LangPython)
	frontend := services.MustAddNode("Frontend Assets", diagram.AWSS3)

	dataTier := vpcCluster.MustAddCluster("Private Subnet - Data Tier")
	rds := dataTier.MustAddNode("RDS Database", diagram.AWSRDS)
	dynamodb := dataTier.MustAddNode("DynamoDB", diagram.AWSDynamoDB)
	elasticache := dataTier.MustAddNode("ElastiCache", diagram.AWSElastiCache)

	security := d.MustAddCluster("Security Layer", nil)
	iam := security.MustAddNode("IAM", diagram.AWSIAM)
	kms := security.MustAddNode("KMS", diagram.AWSKMS)
	acm := security.MustAddNode("Certificate Manager", diagram.AWSACM)
	vault := security.MustAddNode("HashiCorp Vault", diagram.OnPremVault)

	devops := d.MustAddCluster("DevOps Layer", nil)
	github := devops.MustAddNode("Source Code", diagram.OnPremGithub)
	pipeline := devops.MustAddCluster("CI/CD Pipeline")
	codepipeline := pipeline.MustAddNode("CodePipeline", diagram.AWSCodePipeline)
	codebuild := pipeline.MustAddNode("CodeBuild", diagram.AWSCodeBuild)
	codedeploy := pipeline.MustAddNode("CodeDeploy", diagram.AWSCodeDeploy)
	docker := devops.MustAddNode("Container Registry", diagram.OnPremDocker)
	iac := devops.MustAddNode("Terraform/CloudFormation", diagram.AWSCloudFormation)

	monitoring := d.MustAddCluster("Monitoring Layer", nil)
	cloudwatch := monitoring.MustAddNode("CloudWatch", diagram.AWSCloudWatch)
	prometheus := monitoring.MustAddNode("Prometheus", diagram.OnPremPrometheus)
	grafana := monitoring.MustAddNode("Grafana", diagram.OnPremGrafana)
	sns := monitoring.MustAddNode("SNS", diagram.AWSSNS)
	eventbridge := monitoring.MustAddNode("EventBridge", diagram.AWSEventBridge)
	lambda := monitoring.MustAddNode("Lambda Functions", diagram.AWSLambda)

	businessServices := []*diagram.Node{business1, business2}
	dataStores := []*diagram.Node{rds, dynamodb, elasticache}
	keyLink := []diagram.EdgeOption{diagram.WithColor("green"), diagram.WithStyle(diagram.StyleDashed), diagram.Undirected()}

	l := linker{d: d}

	// Request path.
	l.all([]*diagram.Node{web, mobile, apiClient}, route53)
	l.chain(route53, cloudfront, waf, api)
	l.one(shield, cloudfront, diagram.WithColor("red"), diagram.WithStyle(diagram.StyleDashed), diagram.Undirected())
	l.chain(api, elb, eks)

	// Service mesh.
	l.fan(eks, []*diagram.Node{auth, business1, business2, frontend})
	l.fan(auth, []*diagram.Node{iam, vault})
	l.cross(businessServices, append(append([]*diagram.Node(nil), dataStores...), vault))

	// Delivery.
	l.chain(github, codepipeline, codebuild, codedeploy, eks)
	l.chain(codebuild, docker, eks)
	l.one(iac, vpc)

	// Observability.
	l.one(eks, cloudwatch)
	l.chain(eks, prometheus, grafana)
	l.chain(cloudwatch, sns, lambda)
	l.chain(cloudwatch, eventbridge, lambda)

	// Key and certificate management.
	l.fan(kms, dataStores, keyLink...)
	l.fan(acm, []*diagram.Node{api, cloudfront}, keyLink...)

	return l.err
}

// linker records the first connection error and skips the rest.
type linker struct {
	d   *diagram.Diagram
	err error
}

func (l *linker) one(src, dst *diagram.Node, opts ...diagram.EdgeOption) {
	if l.err == nil {
		_, l.err = l.d.Connect(src, dst, opts...)
	}
}

func (l *linker) all(srcs []*diagram.Node, dst *diagram.Node, opts ...diagram.EdgeOption) {
	l.cross(srcs, []*diagram.Node{dst}, opts...)
}

func (l *linker) fan(src *diagram.Node, dsts []*diagram.Node, opts ...diagram.EdgeOption) {
	l.cross([]*diagram.Node{src}, dsts, opts...)
}

func (l *linker) cross(srcs, dsts []*diagram.Node, opts ...diagram.EdgeOption) {
	if l.err == nil {
		_, l.err = l.d.ConnectAll(srcs, dsts, opts...)
	}
}

func (l *linker) chain(nodes ...*diagram.Node) {
	if l.err == nil {
		_, l.err = l.d.Chain(nodes)
	}
}
